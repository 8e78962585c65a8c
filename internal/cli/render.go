package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (one image) or directory (several images)
	jobs    int    // images rendered concurrently
	noCache bool
	refresh bool

	params *paramFlags
	out    outputFlags
	assets assetFlags
}

// renderOutcome is the result of rendering one image.
type renderOutcome struct {
	input  string
	result *pipeline.Result
	files  []string
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: defaultJobs, params: newParamFlags()}

	cmd := &cobra.Command{
		Use:   "render <image>...",
		Short: "Render images as halftone dot fields",
		Long: `Render converts each image into a halftone in every requested format.

Outputs are written next to each input (photo.jpg -> photo.svg) unless -o is
given. With a single image, -o names the output file; with several images it
names a directory.`,
		Example: `  halftone render photo.jpg
  halftone render photo.jpg -f svg,png --scale 2 -o poster.svg
  halftone render *.png --tile star.svg --tile heart.svg --shape-mode range -o out/
  halftone render photo.jpg --preset halftone.toml --tile-size 12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := buildOptions(cmd.Flags(), opts.params, &opts.out)
			if err != nil {
				return err
			}
			popts.Refresh = opts.refresh
			popts.Logger = c.Logger
			if opts.jobs < 1 {
				opts.jobs = 1
			}
			return c.runRender(cmd.Context(), args, &opts, popts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single image) or directory (several images)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of images rendered concurrently")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached result exists")
	opts.params.register(cmd.Flags())
	opts.out.register(cmd.Flags())
	opts.assets.register(cmd.Flags())

	return cmd
}

// runRender renders every input through one shared runner. Assets are read
// once; images are decoded and computed concurrently up to opts.jobs.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts *renderOpts, popts pipeline.Options) error {
	multi := len(inputs) > 1
	if err := checkOutputs(inputs, popts.Formats, opts.output, multi); err != nil {
		return err
	}

	template, err := opts.assets.load()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if multi && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	var spinner *Spinner
	if !c.verbose() {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", plural(len(inputs), "image")))
		spinner.Start()
	}
	prog := newProgress(c.Logger)

	outcomes := make([]renderOutcome, len(inputs))
	var done atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			out, err := renderOne(gctx, runner, input, template, popts, opts.output, multi)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outcomes[i] = out
			if spinner != nil {
				spinner.SetMessage(fmt.Sprintf("Rendered %d/%d images...", done.Add(1), len(inputs)))
			}
			return nil
		})
	}
	err = g.Wait()
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		printSuccess("Rendered %s", o.input)
		printStats(o.result.Stats.Dots, o.result.Result.Stats.Candidates, o.result.CacheInfo.ComputeHit)
		for _, f := range o.files {
			printFile(f)
		}
	}
	prog.done("render complete", "images", len(inputs))
	return nil
}

// renderOne runs the pipeline for one image and writes its artifacts.
func renderOne(ctx context.Context, runner *pipeline.Runner, input string, template pipeline.Input, opts pipeline.Options, output string, multi bool) (renderOutcome, error) {
	src, err := readSource(input)
	if err != nil {
		return renderOutcome{}, err
	}
	in := template
	in.Image = src

	res, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return renderOutcome{}, err
	}

	out := renderOutcome{input: input, result: res}
	for _, format := range opts.Formats {
		path := outputPath(output, input, format, multi)
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		out.files = append(out.files, path)
	}
	return out, nil
}

// outputPath derives where a format's artifact is written.
//
// With no output the artifact goes next to the input. With several inputs
// output is a directory. With one input output is a file path whose known
// format extension is replaced by format. A derived path never overwrites
// the input itself.
func outputPath(output, input, format string, multi bool) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	var path string
	switch {
	case output == "":
		path = filepath.Join(filepath.Dir(input), stem+"."+format)
	case multi:
		path = filepath.Join(output, stem+"."+format)
	default:
		path = basePath(output) + "." + format
	}
	if filepath.Clean(path) == filepath.Clean(input) {
		path = strings.TrimSuffix(path, "."+format) + "-halftone." + format
	}
	return path
}

// checkOutputs rejects runs where two inputs would write the same file.
func checkOutputs(inputs, formats []string, output string, multi bool) error {
	seen := make(map[string]string, len(inputs)*len(formats))
	for _, input := range inputs {
		for _, format := range formats {
			path := filepath.Clean(outputPath(output, input, format, multi))
			if prev, ok := seen[path]; ok {
				return errors.New(errors.ErrCodeInvalidInput,
					"%s and %s would both write %s", prev, input, path)
			}
			seen[path] = input
		}
	}
	return nil
}

// basePath strips a known format extension from path.
func basePath(path string) string {
	ext := filepath.Ext(path)
	if errors.ValidateFormat(strings.TrimPrefix(strings.ToLower(ext), ".")) == nil {
		return strings.TrimSuffix(path, ext)
	}
	return path
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
