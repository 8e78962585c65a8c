package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/preset"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Write and inspect parameter presets",
	}

	cmd.AddCommand(c.presetInitCommand())
	cmd.AddCommand(c.presetShowCommand())

	return cmd
}

// presetInitCommand creates the "preset init" subcommand.
func (c *CLI) presetInitCommand() *cobra.Command {
	var force bool
	params := newParamFlags()
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a preset with the default parameters",
		Long: `Init writes a TOML preset holding the default parameters, adjusted by any
parameter flags given. The file defaults to ` + preset.DefaultName + ` and is never
overwritten unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := preset.DefaultName
			if len(args) == 1 {
				path = args[0]
			}
			opts, err := buildOptions(cmd.Flags(), params, &out)
			if err != nil {
				return err
			}
			if err := preset.WriteFile(path, toPreset(opts), force); err != nil {
				return err
			}
			c.Logger.Debug("preset written", "path", path)
			printSuccess("Wrote preset")
			printFile(path)
			printNextStep("Render with it", "halftone render <image> --preset "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	params.register(cmd.Flags())
	out.register(cmd.Flags())

	return cmd
}

// presetShowCommand creates the "preset show" subcommand.
func (c *CLI) presetShowCommand() *cobra.Command {
	var asTOML bool
	params := newParamFlags()
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective parameters",
		Long: `Show resolves the defaults, an optional --preset and any parameter flags
and prints the parameters a render would use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd.Flags(), params, &out)
			if err != nil {
				return err
			}
			if asTOML {
				return preset.Write(cmd.OutOrStdout(), toPreset(opts))
			}
			printOptions(cmd.OutOrStdout(), opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print as a TOML preset")
	params.register(cmd.Flags())
	out.register(cmd.Flags())

	return cmd
}

// printOptions renders the effective options as a table.
func printOptions(w io.Writer, opts pipeline.Options) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Parameter", "Value").
		Rows(optionRows(opts)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return StyleValue
		})
	fmt.Fprintln(w, t.Render())
}

// optionRows lists the effective settings in preset order.
func optionRows(opts pipeline.Options) [][]string {
	p := opts.Params
	rows := [][]string{
		{"tile_size", num(p.TileSize)},
		{"contrast", num(p.Contrast)},
		{"brightness", num(p.Brightness)},
		{"min_dot_size", num(p.MinDotSize)},
		{"max_dot_scale", num(p.MaxDotScale)},
		{"bright_skip", num(p.BrightSkip)},
		{"invert", strconv.FormatBool(p.Invert)},
		{"gravity", effect(p.Gravity)},
		{"noise", effect(p.Noise)},
		{"pattern", string(p.Pattern)},
		{"shape_mode", string(p.ShapeMode)},
		{"thresholds", num(p.Threshold1) + " .. " + num(p.Threshold2)},
		{"formats", fmt.Sprint(opts.Formats)},
		{"fill", opts.Fill},
	}
	if opts.Background != "" {
		rows = append(rows, []string{"background", opts.Background})
	}
	rows = append(rows, []string{"scale", num(opts.Scale)})
	if opts.Letterboxed() {
		rows = append(rows, []string{"frame", fmt.Sprintf("%dx%d", opts.FrameWidth, opts.FrameHeight)})
	}
	return rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func effect(e halftone.Effect) string {
	if !e.Enabled {
		return "off"
	}
	return num(e.Strength)
}
