package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// wiringCommand creates the wiring command, which draws the connection
// graph of a description.
func (c *CLI) wiringCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "wiring <spec>",
		Short: "Draw the connection graph of a description",
		Long: `Draw every resolved binding and every dropped connection of a description
as a Graphviz graph. Without --output the DOT source is printed. An output
ending in .dot or .gv receives DOT; anything else receives the laid-out SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWiring(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv or .svg)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// wiringFormat picks the pipeline format for an output path.
func wiringFormat(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case "", ".dot", ".gv":
		return pipeline.FormatDOT
	}
	return pipeline.FormatWiring
}

func (c *CLI) runWiring(ctx context.Context, input, output string, noCache bool) error {
	data, enc, err := readSpec(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	format := wiringFormat(output)
	res, err := runner.Execute(ctx, pipeline.Options{
		Spec:     data,
		Encoding: enc,
		Name:     input,
		Formats:  []string{format},
	})
	if err != nil {
		return err
	}

	artifact := res.Artifacts[format]
	if output == "" {
		_, err := c.Out.Write(artifact)
		return err
	}
	if err := os.WriteFile(output, artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wiring of %s", input)
	printFile(output, len(artifact))
	return nil
}
