package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackplot/pkg/buildinfo"
	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/observability"
	"github.com/matzehuels/stackplot/pkg/spec"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so several
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → render → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Name, opts.Formats)
	start := time.Now()
	result, err := r.execute(ctx, opts)
	hooks.OnRenderComplete(ctx, opts.Name, opts.Formats, time.Since(start), err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	// Stage 1: Decode
	decodeStart := time.Now()
	f, err := spec.Decode(opts.Spec, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	canonical, err := f.Canonical()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	result := &Result{
		Name:      opts.Name,
		SpecHash:  cache.Hash(canonical),
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.Elements = len(f.Elements)
	result.Stats.DecodeTime = time.Since(decodeStart)

	r.Logger.Info("decoded spec",
		"name", opts.Name,
		"elements", len(f.Elements),
		"connections", len(f.Connections),
		"duration", result.Stats.DecodeTime)

	var pending []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, ok := r.lookup(ctx, result.SpecHash, format, opts); ok {
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			}
		}
		pending = append(pending, format)
	}
	result.CacheInfo.Misses = pending
	if len(pending) == 0 {
		r.Logger.Info("served from cache", "name", opts.Name, "formats", opts.Formats)
		return result, nil
	}

	// Stages 2 and 3: Render and export
	renderStart := time.Now()
	docs := make(map[diagram.Format]*rendered)
	for _, format := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		df := documentFormat(format)
		rd, ok := docs[df]
		if !ok {
			if rd, err = r.renderDocument(ctx, f, df, opts); err != nil {
				return nil, fmt.Errorf("render: %w", err)
			}
			docs[df] = rd
			result.Bindings = len(rd.doc.Bindings)
			result.Dropped = len(rd.doc.Dropped)
		}

		data, err := export(ctx, format, rd, f, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		result.Artifacts[format] = data
		r.store(ctx, result.SpecHash, format, opts, data)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"name", opts.Name,
		"formats", pending,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// renderDocument builds a fresh element graph for f and renders it. A
// diagram renders once, so every document format gets its own build.
func (r *Runner) renderDocument(ctx context.Context, f *spec.File, df diagram.Format, opts Options) (*rendered, error) {
	built, err := spec.Build(f, diagram.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	doc, err := built.Diagram.Render(df)
	if err != nil {
		return nil, err
	}
	observability.Render().OnBindingsResolved(ctx, opts.Name, len(doc.Bindings), len(doc.Dropped))
	r.Logger.Debug("rendered document",
		"format", df,
		"width", doc.Width,
		"height", doc.Height,
		"bindings", len(doc.Bindings),
		"dropped", len(doc.Dropped))
	return &rendered{built: built, doc: doc}, nil
}

// RenderBatch executes every option set with at most limit runs in flight;
// limit <= 0 means no limit. Results keep the input order. The first
// failure cancels the runs still pending.
func (r *Runner) RenderBatch(ctx context.Context, batch []Options, limit int) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]*Result, len(batch))
	for i, opts := range batch {
		if opts.Name == "" {
			opts.Name = fmt.Sprintf("spec %d", i+1)
		}
		g.Go(func() error {
			res, err := r.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", opts.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// cacheKey returns the key of one artifact and the key type reported to
// hooks.
func (r *Runner) cacheKey(specHash, format string, opts Options) (string, string) {
	if isWiring(format) {
		return r.Keyer.WiringKey(specHash, format), "wiring"
	}
	ko := cache.ArtifactKeyOpts{Format: format, Version: buildinfo.Version}
	if format == FormatPNG {
		ko.Scale = opts.Scale
	}
	return r.Keyer.ArtifactKey(specHash, ko), "artifact"
}

func (r *Runner) lookup(ctx context.Context, specHash, format string, opts Options) ([]byte, bool) {
	key, keyType := r.cacheKey(specHash, format, opts)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "format", format, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, specHash, format string, opts Options, data []byte) {
	key, keyType := r.cacheKey(specHash, format, opts)
	ttl := cache.TTLArtifact
	if keyType == "wiring" {
		ttl = cache.TTLWiring
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache store failed", "format", format, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
