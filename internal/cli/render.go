package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/pipeline"
	"github.com/matzehuels/stackplot/pkg/spec"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (one spec, one format), base path (one spec) or directory (several specs)
	formats []string // svg, interactive, json, png, pdf, dot, wiring
	noCache bool     // bypass the render cache entirely
	refresh bool     // re-render and overwrite cached artifacts
	scale   float64  // PNG scale factor
	jobs    int      // concurrent renders
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		scale: pipeline.DefaultScale,
		jobs:  defaultJobs,
	}

	cmd := &cobra.Command{
		Use:   "render <spec>...",
		Short: "Render descriptions to SVG and derived formats",
		Long: `Render one or more TOML or YAML descriptions.

With a single description and a single format, --output names the file.
With several formats it is a base path, and with several descriptions a
directory. Without --output, artifacts are written next to each description.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path or directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "descriptions rendered concurrently")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// readSpec reads a description file and infers its encoding from the
// extension.
func readSpec(path string) ([]byte, spec.Encoding, error) {
	enc, err := spec.EncodingFromPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "description %s", path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, enc, nil
}

// runRender renders every input through one runner and writes the
// artifacts once all renders succeeded.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	batch := make([]pipeline.Options, len(inputs))
	for i, in := range inputs {
		data, enc, err := readSpec(in)
		if err != nil {
			return err
		}
		batch[i] = pipeline.Options{
			Spec:     data,
			Encoding: enc,
			Name:     in,
			Formats:  opts.formats,
			Scale:    opts.scale,
			Refresh:  opts.refresh,
		}
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if len(inputs) > 1 {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d descriptions...", len(inputs)))
		spinner.Start()
	}
	results, err := runner.RenderBatch(ctx, batch, opts.jobs)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	batchMode := len(inputs) > 1
	if batchMode && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var dropped int
	for i, res := range results {
		if err := writeResult(inputs[i], res, opts, batchMode); err != nil {
			return err
		}
		dropped += res.Dropped
	}

	prog.done("render complete", "specs", len(inputs), "formats", len(opts.formats))
	if dropped > 0 {
		printWarning("%d connection(s) dropped: an endpoint is not part of the document", dropped)
		printNextStep("Inspect the wiring", fmt.Sprintf("%s wiring %s", appName, inputs[0]))
	}
	return nil
}

// writeResult writes every artifact of res and prints a summary.
func writeResult(input string, res *pipeline.Result, opts *renderOpts, batchMode bool) error {
	printSuccess("%s", input)
	printStats(res.Stats.Elements, res.Bindings, res.Dropped, res.CacheInfo.AllHit())

	written := make(map[string]bool)
	for _, format := range opts.formats {
		data, ok := res.Artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(input, format, opts.formats, opts.output, batchMode)
		if written[path] {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written[path] = true
		printFile(path, len(data))
	}
	return nil
}

// outputPath returns where the artifact of format is written.
func outputPath(input, format string, formats []string, output string, batchMode bool) string {
	if output != "" && !batchMode && len(formats) == 1 {
		return output
	}

	dir := filepath.Dir(input)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch {
	case output != "" && batchMode:
		dir = output
	case output != "":
		dir, base = filepath.Split(basePath(output))
	}
	return filepath.Join(dir, base+extension(format, formats))
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// extension returns the file extension for format. Static and interactive
// SVG rendered together need distinct names.
func extension(format string, formats []string) string {
	if format == pipeline.FormatInteractive && slices.Contains(formats, pipeline.FormatSVG) {
		return ".interactive.svg"
	}
	return pipeline.Extensions[format]
}
