// Package preset reads and writes TOML parameter presets.
//
// A preset mirrors [halftone.Params] under a [params] table and carries
// optional render settings under [output]:
//
//	[params]
//	tile_size = 24
//	pattern = "staggered"
//
//	[params.gravity]
//	enabled = true
//	strength = 40
//
//	[output]
//	formats = ["svg", "png"]
//	fill = "#1a1a1a"
//
// Keys missing from a file keep their default values. Unknown keys are an
// error so that typos don't silently fall back to defaults.
package preset

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/halftone/pkg/errors"
	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
)

// DefaultName is the file name `halftone preset init` writes.
const DefaultName = "halftone.toml"

// File is the on-disk preset layout.
type File struct {
	Params halftone.Params `toml:"params"`
	Output Output          `toml:"output"`
}

// Output holds render settings. Empty fields leave the pipeline defaults
// in place.
type Output struct {
	Formats    []string `toml:"formats,omitempty"`
	Fill       string   `toml:"fill,omitempty"`
	Background string   `toml:"background,omitempty"`
	Scale      float64  `toml:"scale,omitempty"`
	Frame      string   `toml:"frame,omitempty"` // "WxH" letterbox frame
}

// Default returns a preset holding the default parameters.
func Default() File {
	return File{
		Params: halftone.DefaultParams(),
		Output: Output{
			Formats: []string{pipeline.FormatSVG},
			Fill:    pipeline.DefaultFill,
			Scale:   pipeline.DefaultScale,
		},
	}
}

// Load reads a preset file.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "preset %s not found", path)
		}
		return File{}, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Parse decodes preset data over the defaults and normalizes the parameters.
func Parse(data []byte) (File, error) {
	f := File{Params: halftone.DefaultParams()}
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidPreset, err, "invalid preset")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset keys: %s", strings.Join(keys, ", "))
	}

	p, err := f.Params.Normalize()
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidPreset, err, "invalid preset")
	}
	f.Params = p
	return f, nil
}

// Write encodes f as TOML.
func Write(w io.Writer, f File) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes f to path. An existing file is only replaced when force
// is set.
func WriteFile(path string, f File, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("create preset: %w", err)
	}
	if err := Write(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Options converts the preset into pipeline options.
func (f File) Options() (pipeline.Options, error) {
	opts := pipeline.Options{
		Params:     f.Params,
		Formats:    f.Output.Formats,
		Fill:       f.Output.Fill,
		Background: f.Output.Background,
		Scale:      f.Output.Scale,
	}
	if f.Output.Frame != "" {
		w, h, err := errors.ParseFrame(f.Output.Frame)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.FrameWidth, opts.FrameHeight = w, h
	}
	return opts, nil
}
