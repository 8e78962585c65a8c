package cache

import "github.com/matzehuels/halftone/pkg/halftone"

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// ResultKey identifies a computed dot field.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// ArtifactKey identifies rendered output for a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds everything besides the input bytes that changes a
// computed result.
type ResultKeyOpts struct {
	Params      halftone.Params `json:"params"`
	FrameWidth  int             `json:"frame_width,omitempty"`
	FrameHeight int             `json:"frame_height,omitempty"`
}

// ArtifactKeyOpts holds the render options of an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Fill       string  `json:"fill,omitempty"`
	Background string  `json:"background,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces "result:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
