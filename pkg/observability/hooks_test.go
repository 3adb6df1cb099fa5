package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "fruit.toml", []string{"svg"})
	r.OnRenderComplete(ctx, "fruit.toml", []string{"svg"}, time.Second, nil)
	r.OnBindingsResolved(ctx, "fruit.toml", 3, 1)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "wiring")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/render")
	h.OnResponse(ctx, "POST", "/render", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)
	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		emit func(LogHooks)
		want string
	}{
		{
			name: "render complete",
			emit: func(h LogHooks) { h.OnRenderComplete(ctx, "fruit.toml", []string{"svg"}, time.Millisecond, nil) },
			want: "INFO rendered",
		},
		{
			name: "render failure",
			emit: func(h LogHooks) { h.OnRenderComplete(ctx, "fruit.toml", nil, 0, errors.New("boom")) },
			want: "ERRO render failed",
		},
		{
			name: "server error",
			emit: func(h LogHooks) { h.OnResponse(ctx, "POST", "/render", 500, 0) },
			want: "ERRO response",
		},
		{
			name: "cache hit is debug",
			emit: func(h LogHooks) { h.OnCacheHit(ctx, "artifact") },
			want: "DEBU cache hit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(LogHooks{Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
