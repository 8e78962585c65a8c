package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pattern"
	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/preset"
	"github.com/matzehuels/halftone/pkg/shape"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuneCommand creates the interactive tuning command.
func (c *CLI) tuneCommand() *cobra.Command {
	params := newParamFlags()
	var out outputFlags
	var assets assetFlags
	var output, presetPath string

	cmd := &cobra.Command{
		Use:   "tune <image>",
		Short: "Adjust parameters interactively",
		Long: `Tune decodes an image once and recomputes the dot field on every change,
showing a coarse preview and the dot count in the terminal.

Keys:
  ↑/↓ select  ←/→ adjust  space toggle/cycle  r reset
  s save artifacts  w write preset  q quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd.Flags(), params, &out)
			if err != nil {
				return err
			}
			opts.Logger = c.Logger
			if output == "" {
				output = pipeline.OutputBaseName
			}
			return c.runTune(cmd.Context(), args[0], &assets, opts, output, presetPath)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base path for saved artifacts (default "+pipeline.OutputBaseName+")")
	cmd.Flags().StringVar(&presetPath, "write-preset", preset.DefaultName, "preset file written by the w key")
	params.register(cmd.Flags())
	out.register(cmd.Flags())
	assets.register(cmd.Flags())

	return cmd
}

func (c *CLI) runTune(ctx context.Context, image string, assets *assetFlags, opts pipeline.Options, output, presetPath string) error {
	in, err := assets.load()
	if err != nil {
		return err
	}
	if in.Image, err = readSource(image); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Decoding "+image+"...")
	spinner.Start()
	prepared, err := pipeline.Prepare(ctx, in, opts)
	if err != nil {
		spinner.StopWithError("Cannot decode " + image)
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Decoded %s (%dx%d)", image, prepared.Frame.Width, prepared.Frame.Height))

	m := NewTuneModel(prepared, opts, output, presetPath)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(TuneModel)
	if !ok {
		return nil
	}
	for _, f := range fm.Saved {
		printFile(f)
	}
	if len(fm.Saved) == 0 {
		printDetail("Nothing saved")
	}
	return nil
}

// =============================================================================
// Controls
// =============================================================================

// control is one adjustable parameter row.
type control struct {
	name  string
	value func(p halftone.Params) string
	step  func(p *halftone.Params, dir float64)
}

var (
	patternCycle = []pattern.Kind{pattern.Grid, pattern.Staggered, pattern.Radial, pattern.Shape, pattern.SVGPattern}
	modeCycle    = []shape.Mode{shape.ModeSingle, shape.ModeRange, shape.ModeRandom}
)

func numControl(name string, delta float64, field func(p *halftone.Params) *float64) control {
	return control{
		name:  name,
		value: func(p halftone.Params) string { return num(round2(*field(&p))) },
		step:  func(p *halftone.Params, dir float64) { *field(p) += dir * delta },
	}
}

func effectControl(name string, delta float64, field func(p *halftone.Params) *halftone.Effect) control {
	return control{
		name:  name,
		value: func(p halftone.Params) string { return effect(*field(&p)) },
		step: func(p *halftone.Params, dir float64) {
			e := field(p)
			e.Strength = math.Max(0, e.Strength+dir*delta)
			e.Enabled = e.Strength > 0
		},
	}
}

func cycle[T comparable](values []T, cur T, dir float64) T {
	i := 0
	for j, v := range values {
		if v == cur {
			i = j
		}
	}
	if dir < 0 {
		i += len(values) - 1
	} else {
		i++
	}
	return values[i%len(values)]
}

var tuneControls = []control{
	numControl("tile size", 1, func(p *halftone.Params) *float64 { return &p.TileSize }),
	numControl("contrast", 0.1, func(p *halftone.Params) *float64 { return &p.Contrast }),
	numControl("brightness", 0.05, func(p *halftone.Params) *float64 { return &p.Brightness }),
	numControl("min dot", 0.5, func(p *halftone.Params) *float64 { return &p.MinDotSize }),
	numControl("max scale", 0.1, func(p *halftone.Params) *float64 { return &p.MaxDotScale }),
	numControl("bright skip", 0.05, func(p *halftone.Params) *float64 { return &p.BrightSkip }),
	{
		name:  "invert",
		value: func(p halftone.Params) string { return strconv.FormatBool(p.Invert) },
		step:  func(p *halftone.Params, _ float64) { p.Invert = !p.Invert },
	},
	effectControl("gravity", 5, func(p *halftone.Params) *halftone.Effect { return &p.Gravity }),
	effectControl("noise", 1, func(p *halftone.Params) *halftone.Effect { return &p.Noise }),
	{
		name:  "pattern",
		value: func(p halftone.Params) string { return string(p.Pattern) },
		step:  func(p *halftone.Params, dir float64) { p.Pattern = cycle(patternCycle, p.Pattern, dir) },
	},
	{
		name:  "shape mode",
		value: func(p halftone.Params) string { return string(p.ShapeMode) },
		step:  func(p *halftone.Params, dir float64) { p.ShapeMode = cycle(modeCycle, p.ShapeMode, dir) },
	},
	numControl("threshold 1", 0.05, func(p *halftone.Params) *float64 { return &p.Threshold1 }),
	numControl("threshold 2", 0.05, func(p *halftone.Params) *float64 { return &p.Threshold2 }),
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// =============================================================================
// TuneModel - Interactive parameter tuning
// =============================================================================

// TuneModel is the bubbletea model for interactive tuning. Every parameter
// change schedules a recomputation; results from superseded changes are
// dropped.
type TuneModel struct {
	Params halftone.Params
	Result halftone.Result
	Cursor int
	Saved  []string

	prepared   *pipeline.Prepared
	opts       pipeline.Options
	output     string
	presetPath string

	gen     int
	busy    bool
	elapsed time.Duration
	status  string
	err     error
	width   int
}

// computedMsg carries the result of one recomputation.
type computedMsg struct {
	gen     int
	result  halftone.Result
	elapsed time.Duration
	err     error
}

// savedMsg reports files written by a save action.
type savedMsg struct {
	files []string
	err   error
}

// NewTuneModel creates a tuning model over a prepared image.
func NewTuneModel(prepared *pipeline.Prepared, opts pipeline.Options, output, presetPath string) TuneModel {
	return TuneModel{
		Params:     opts.Params,
		prepared:   prepared,
		opts:       opts,
		output:     output,
		presetPath: presetPath,
		busy:       true,
		width:      80,
	}
}

func (m TuneModel) Init() tea.Cmd {
	return m.compute()
}

func (m TuneModel) compute() tea.Cmd {
	gen, params, prepared := m.gen, m.Params, m.prepared
	return func() tea.Msg {
		start := time.Now()
		res, err := prepared.Compute(params)
		return computedMsg{gen: gen, result: res, elapsed: time.Since(start), err: err}
	}
}

// changed clamps the parameters and schedules a recomputation.
func (m TuneModel) changed() (tea.Model, tea.Cmd) {
	m.Params = m.Params.Clamp()
	m.gen++
	m.busy = true
	m.status = ""
	return m, m.compute()
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(tuneControls)-1 {
				m.Cursor++
			}
		case "left", "h":
			tuneControls[m.Cursor].step(&m.Params, -1)
			return m.changed()
		case "right", "l", " ":
			tuneControls[m.Cursor].step(&m.Params, 1)
			return m.changed()
		case "r":
			m.Params = halftone.DefaultParams()
			return m.changed()
		case "s":
			if m.busy {
				m.status = "still computing"
				return m, nil
			}
			return m, m.saveArtifacts()
		case "w":
			return m, m.writePreset()
		}
	case computedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.Result = msg.result
			m.elapsed = msg.elapsed
		}
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.Saved = append(m.Saved, msg.files...)
		m.status = "saved " + strings.Join(msg.files, ", ")
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// saveArtifacts renders the current result in every configured format.
func (m TuneModel) saveArtifacts() tea.Cmd {
	res, prepared, opts, output := m.Result, m.prepared, m.opts, m.output
	opts.Params = m.Params
	return func() tea.Msg {
		artifacts, err := pipeline.Render(res, prepared.Assets, prepared.Tiles, opts)
		if err != nil {
			return savedMsg{err: err}
		}
		var files []string
		for _, format := range opts.Formats {
			path := basePath(output) + "." + format
			if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
				return savedMsg{err: err}
			}
			files = append(files, path)
		}
		return savedMsg{files: files}
	}
}

// writePreset writes the current parameters, replacing an existing file.
func (m TuneModel) writePreset() tea.Cmd {
	opts, path := m.opts, m.presetPath
	opts.Params = m.Params
	return func() tea.Msg {
		if err := preset.WriteFile(path, toPreset(opts), true); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{files: []string{path}}
	}
}

func (m TuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune Halftone"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ adjust  r reset  s save  w preset  q quit"))
	b.WriteString("\n\n")

	for i, ctl := range tuneControls {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, ctl.name, ctl.value(m.Params))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cols := min(m.width-2, 72)
	for _, row := range preview(m.Result, cols) {
		b.WriteString(StyleValue.Render(row))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(m.err.Error()))
	case m.busy:
		b.WriteString(listDimStyle.Render("computing..."))
	default:
		s := m.Result.Stats
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %d candidates · %d shrunk · %s",
			plural(len(m.Result.Dots), "dot"), s.Candidates, s.Shrunk, m.elapsed.Round(time.Millisecond))))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

// =============================================================================
// Preview
// =============================================================================

// previewRamp orders glyphs from empty to fully covered.
const previewRamp = " .:-=+*#%@"

// preview draws the dot field as text, cols characters wide. Each cell's
// glyph reflects the share of its area covered by dots. Rows are half as
// tall as columns are wide to offset the terminal glyph aspect.
func preview(res halftone.Result, cols int) []string {
	if res.Frame.Empty() || cols < 1 {
		return nil
	}
	w, h := float64(res.Frame.Width), float64(res.Frame.Height)
	rows := max(1, int(math.Round(float64(cols)*h/w/2)))

	cover := make([]float64, cols*rows)
	for _, d := range res.Dots {
		cx := min(cols-1, max(0, int(d.X/w*float64(cols))))
		cy := min(rows-1, max(0, int(d.Y/h*float64(rows))))
		r := d.Size / 2
		cover[cy*cols+cx] += math.Pi * r * r
	}

	cellArea := (w / float64(cols)) * (h / float64(rows))
	last := len(previewRamp) - 1
	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var sb strings.Builder
		for x := 0; x < cols; x++ {
			c := math.Min(1, cover[y*cols+x]/cellArea)
			sb.WriteByte(previewRamp[int(math.Round(c*float64(last)))])
		}
		lines[y] = sb.String()
	}
	return lines
}
