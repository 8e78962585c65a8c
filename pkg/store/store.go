// Package store keeps a history of renders made through the HTTP server.
//
// A [Record] describes one render: the parameters, the frame, the stats and
// the hashes needed to find the cached artifacts again. Records never hold
// image data; artifacts live in the cache and may be evicted independently.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON file per record
//   - [MongoStore]: a MongoDB collection for shared deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 50

// Record describes one completed render.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Image     string    `json:"image" bson:"image"`
	Tiles     []string  `json:"tiles,omitempty" bson:"tiles,omitempty"`

	Frame  halftone.Frame  `json:"frame" bson:"frame"`
	Params halftone.Params `json:"params" bson:"params"`
	Stats  halftone.Stats  `json:"stats" bson:"stats"`

	Formats    []string `json:"formats" bson:"formats"`
	Fill       string   `json:"fill" bson:"fill"`
	Background string   `json:"background,omitempty" bson:"background,omitempty"`
	Scale      float64  `json:"scale" bson:"scale"`

	InputHash  string `json:"input_hash" bson:"input_hash"`
	ResultHash string `json:"result_hash" bson:"result_hash"`
}

// NewRecord builds a record for a finished pipeline run with a fresh ID.
// opts must have been validated by the run.
func NewRecord(image string, res *pipeline.Result, opts pipeline.Options) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Image:      image,
		Tiles:      res.Tiles,
		Frame:      res.Result.Frame,
		Params:     res.Result.Params,
		Stats:      res.Result.Stats,
		Formats:    opts.Formats,
		Fill:       opts.Fill,
		Background: opts.Background,
		Scale:      opts.Scale,
		InputHash:  res.InputHash,
		ResultHash: res.ResultHash,
	}
}

// RenderOptions returns the render settings the record was made with, for
// looking up its artifacts.
func (r *Record) RenderOptions() pipeline.Options {
	return pipeline.Options{
		Params:     r.Params,
		Formats:    r.Formats,
		Fill:       r.Fill,
		Background: r.Background,
		Scale:      r.Scale,
	}
}

// HasFormat reports whether format was rendered.
func (r *Record) HasFormat(format string) bool {
	for _, f := range r.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ValidID reports whether id has the shape of a record ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for render history backends.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. limit <= 0 means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases backend resources.
	Close() error
}
