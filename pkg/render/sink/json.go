package sink

import (
	"encoding/json"

	"github.com/matzehuels/halftone/pkg/halftone"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	tiles   []string
	compact bool
}

// WithJSONTiles records tile names so consumers can resolve dot shape
// indices.
func WithJSONTiles(names []string) JSONOption { return func(r *jsonRenderer) { r.tiles = names } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	Params halftone.Params       `json:"params"`
	Stats  halftone.Stats        `json:"stats"`
	Tiles  []string              `json:"tiles,omitempty"`
	Dots   []halftone.Renderable `json:"dots"`
}

// RenderJSON exports the result. It returns an error only if marshaling
// fails.
func RenderJSON(res halftone.Result, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  res.Frame.Width,
		Height: res.Frame.Height,
		Params: res.Params,
		Stats:  res.Stats,
		Tiles:  r.tiles,
		Dots:   res.Dots,
	}
	if out.Dots == nil {
		out.Dots = []halftone.Renderable{}
	}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
