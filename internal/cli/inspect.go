package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser for
// the placements and connections of a description.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <spec>",
		Short: "Browse the elements and connections of a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := c.loadExport(cmd.Context(), args[0], noCache)
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(c.Out, elementTable(export, -1, 0, len(export.Elements)).Render())
				fmt.Fprintln(c.Out, connectionTable(export, -1, 0, len(connectionRows(export))).Render())
				return nil
			}
			_, err = tea.NewProgram(newInspectModel(args[0], export), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the tables instead of starting the browser")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// loadExport renders the JSON export of a description, going through the
// cache like any other artifact.
func (c *CLI) loadExport(ctx context.Context, input string, noCache bool) (pipeline.Export, error) {
	var export pipeline.Export

	data, enc, err := readSpec(input)
	if err != nil {
		return export, err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return export, err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, pipeline.Options{
		Spec:     data,
		Encoding: enc,
		Name:     input,
		Formats:  []string{pipeline.FormatJSON},
	})
	if err != nil {
		return export, err
	}
	if err := json.Unmarshal(res.Artifacts[pipeline.FormatJSON], &export); err != nil {
		return export, fmt.Errorf("decode export: %w", err)
	}
	return export, nil
}

// =============================================================================
// Tables
// =============================================================================

var (
	inspectHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	inspectSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	inspectNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	inspectDroppedStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	inspectTabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(colorDim)
	inspectActiveStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorCyan).Underline(true)
)

func elementRows(e pipeline.Export) [][]string {
	rows := make([][]string, 0, len(e.Elements))
	for _, el := range e.Elements {
		name := el.Name
		if name == "" {
			name = StyleDim.Render(el.ID)
		}
		rows = append(rows, []string{
			name,
			el.Kind,
			fmt.Sprintf("%.1f", el.CX),
			fmt.Sprintf("%.1f", el.CY),
			fmt.Sprintf("%.1f", el.Width),
			fmt.Sprintf("%.1f", el.Height),
		})
	}
	return rows
}

// connectionRows lists resolved bindings followed by dropped connections.
func connectionRows(e pipeline.Export) [][]string {
	rows := make([][]string, 0, len(e.Bindings)+len(e.Dropped))
	for _, b := range e.Bindings {
		rows = append(rows, []string{b.From + "." + b.Output, iconArrow, b.To + "." + b.Input, "bound"})
	}
	for _, d := range e.Dropped {
		from, to, _ := strings.Cut(d, " -> ")
		rows = append(rows, []string{from, iconArrow, to, "dropped"})
	}
	return rows
}

// elementTable renders the rows [offset, end) of the element table with
// cursor highlighted; a negative cursor highlights nothing.
func elementTable(e pipeline.Export, cursor, offset, end int) *table.Table {
	rows := elementRows(e)
	end = min(end, len(rows))
	return newTable(cursor-offset, rows[offset:end], nil, "Element", "Kind", "CX", "CY", "Width", "Height")
}

func connectionTable(e pipeline.Export, cursor, offset, end int) *table.Table {
	rows := connectionRows(e)
	end = min(end, len(rows))
	visible := rows[offset:end]
	dropped := func(row int) bool { return visible[row][3] == "dropped" }
	return newTable(cursor-offset, visible, dropped, "Output", "", "Input", "State")
}

func newTable(cursor int, rows [][]string, dropped func(int) bool, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return inspectHeaderStyle
			case row == cursor:
				return inspectSelectedStyle
			case dropped != nil && dropped(row):
				return inspectDroppedStyle
			}
			return inspectNormalStyle
		})
}

// =============================================================================
// inspectModel - Interactive browser
// =============================================================================

const (
	tabElements = iota
	tabConnections
)

// inspectModel is the bubbletea model of the inspect command.
type inspectModel struct {
	name   string
	export pipeline.Export
	tab    int
	cursor int
	offset int
	height int
}

func newInspectModel(name string, export pipeline.Export) inspectModel {
	return inspectModel{name: name, export: export, height: 15}
}

// rowCount returns the number of rows of the active tab.
func (m inspectModel) rowCount() int {
	if m.tab == tabConnections {
		return len(m.export.Bindings) + len(m.export.Dropped)
	}
	return len(m.export.Elements)
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l", "left", "h":
			m.tab = 1 - m.tab
			m.cursor, m.offset = 0, 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	title := m.name
	if m.export.Title != "" {
		title = m.export.Title + StyleDim.Render("  "+m.name)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	tabs := []string{
		fmt.Sprintf("Elements (%d)", len(m.export.Elements)),
		fmt.Sprintf("Connections (%d)", len(m.export.Bindings)+len(m.export.Dropped)),
	}
	for i, t := range tabs {
		style := inspectTabStyle
		if i == m.tab {
			style = inspectActiveStyle
		}
		b.WriteString(style.Render(t))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab switch  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if m.rowCount() == 0 {
		b.WriteString(StyleDim.Render("  nothing to show"))
		return b.String()
	}

	end := m.offset + m.height
	if m.tab == tabConnections {
		b.WriteString(connectionTable(m.export, m.cursor, m.offset, end).Render())
	} else {
		b.WriteString(elementTable(m.export, m.cursor, m.offset, end).Render())
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, m.rowCount())))

	return b.String()
}
