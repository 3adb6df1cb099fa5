package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/observability"
	"github.com/matzehuels/stackplot/pkg/pipeline"
)

func quietLogger() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	if cfg.Runner == nil {
		c, err := cache.NewFileCache(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		cfg.Runner = pipeline.NewRunner(c, cache.NewScopedKeyer(nil, "api:"), cfg.Logger)
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../pkg/spec/testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func post(t *testing.T, url, contentType string, body []byte) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("error body does not decode: %v", err)
	}
	return apiErr
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, Config{})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want trace-42", got)
	}
}

func TestFormatsAndVersion(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/formats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct{ Formats []string }
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Formats) != len(pipeline.ValidFormats) {
		t.Errorf("formats = %v", body.Formats)
	}

	resp, err = http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		t.Errorf("GET /version = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Config{})
	body := readFixture(t, "fruit.toml")

	resp := post(t, ts.URL+"/render?format=interactive", "application/toml", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	if got := resp.Header.Get("X-Bindings"); got != "1" {
		t.Errorf("X-Bindings = %q, want 1", got)
	}
	markup, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(markup, []byte("<title>Fruit &amp; veg</title>")) {
		t.Error("rendered document missing title")
	}

	again := post(t, ts.URL+"/render?format=interactive", "application/yaml", readFixture(t, "fruit.yaml"))
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("YAML translation X-Cache = %q, want hit", got)
	}
	if again.Header.Get("X-Spec-Hash") != resp.Header.Get("X-Spec-Hash") {
		t.Error("encodings hashed differently")
	}
}

func TestRenderDefaultsToSVG(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts.URL+"/render", "", readFixture(t, "fruit.toml"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("Content-Security-Policy") != "" {
		t.Error("static documents need no script policy")
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, Config{MaxBody: 64})

	tests := []struct {
		name   string
		query  string
		ctype  string
		body   string
		status int
		code   string
	}{
		{"invalid spec", "", "", "[[elements]]\nname = \"a\"\nkind = \"pie\"\n", http.StatusBadRequest, "INVALID_SPEC"},
		{"invalid toml", "", "", "[[elements", http.StatusBadRequest, "INVALID_SPEC"},
		{"yaml body as toml", "?encoding=toml", "application/yaml", "elements: []\n", http.StatusBadRequest, "INVALID_SPEC"},
		{"invalid format", "?format=gif", "", "", http.StatusBadRequest, "INVALID_FORMAT"},
		{"invalid encoding", "?encoding=xml", "", "", http.StatusBadRequest, "INVALID_SPEC"},
		{"negative extent", "", "", "[[elements]]\nname = \"a\"\nkind = \"rect\"\nwidth = -1\n", http.StatusBadRequest, "INVALID_CONFIG"},
		{"too large", "", "", strings.Repeat("#", 100), http.StatusRequestEntityTooLarge, "TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/render"+tt.query, tt.ctype, []byte(tt.body))
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			apiErr := decodeError(t, resp)
			if apiErr.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", apiErr.Code, tt.code, apiErr.Message)
			}
			if apiErr.RequestID == "" || apiErr.RequestID != resp.Header.Get(RequestIDHeader) {
				t.Errorf("request_id = %q, header %q", apiErr.RequestID, resp.Header.Get(RequestIDHeader))
			}
		})
	}
}

type statusHooks struct {
	observability.NoopHTTPHooks

	mu       sync.Mutex
	statuses []int
}

func (h *statusHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &statusHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{})
	post(t, ts.URL+"/render?format=gif", "", nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []int{http.StatusBadRequest, http.StatusOK}
	if len(hooks.statuses) != 2 || hooks.statuses[0] != want[0] || hooks.statuses[1] != want[1] {
		t.Errorf("statuses = %v, want %v", hooks.statuses, want)
	}
}

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := toAPIError(tt.err); got.Status != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.name, got.Status, tt.status)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(Config{Logger: quietLogger()})

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
