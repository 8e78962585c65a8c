package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/halftone/pkg/halftone"
	"github.com/matzehuels/halftone/pkg/pipeline"
)

func record(created time.Time) *Record {
	return &Record{
		ID:         uuid.NewString(),
		CreatedAt:  created.UTC(),
		Image:      "cat.jpg",
		Frame:      halftone.Frame{Width: 120, Height: 80},
		Params:     halftone.DefaultParams(),
		Stats:      halftone.Stats{Candidates: 12, Survivors: 9, Shrunk: 1},
		Formats:    []string{pipeline.FormatSVG},
		Fill:       pipeline.DefaultFill,
		Scale:      1,
		InputHash:  "in",
		ResultHash: "out",
	}
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("missing", func(t *testing.T) {
		if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(unknown) err = %v, want ErrNotFound", err)
		}
	})

	old, mid, recent := record(base), record(base.Add(time.Minute)), record(base.Add(2*time.Minute))
	for _, r := range []*Record{mid, old, recent} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, mid.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Params != mid.Params || got.Frame != mid.Frame || got.Stats != mid.Stats {
			t.Errorf("Get = %+v, want %+v", got, mid)
		}
		if !got.CreatedAt.Equal(mid.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, mid.CreatedAt)
		}
	})

	t.Run("list", func(t *testing.T) {
		recs, err := s.List(ctx, 2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(recs) != 2 || recs[0].ID != recent.ID || recs[1].ID != mid.ID {
			t.Errorf("List(2) should return the two newest records first")
		}
	})

	t.Run("replace", func(t *testing.T) {
		updated := *old
		updated.Image = "dog.png"
		if err := s.Save(ctx, &updated); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, old.ID)
		if err != nil || got.Image != "dog.png" {
			t.Errorf("Get after replace = %+v, %v", got, err)
		}
		recs, _ := s.List(ctx, 0)
		if len(recs) != 3 {
			t.Errorf("List after replace = %d records, want 3", len(recs))
		}
	})

	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	rec := record(time.Now())
	_ = s.Save(context.Background(), rec)
	rec.Image = "mutated"

	got, _ := s.Get(context.Background(), rec.ID)
	if got.Image != "cat.jpg" {
		t.Error("store should not alias saved records")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.Get(ctx, "../../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(traversal) err = %v, want ErrNotFound", err)
	}
	rec := record(time.Now())
	rec.ID = "../escape"
	if err := s.Save(ctx, rec); err == nil {
		t.Error("Save should reject a non-uuid id")
	}
}

func TestNewRecord(t *testing.T) {
	opts := pipeline.Options{Formats: []string{"svg", "png"}, Fill: "#112233", Scale: 2}
	res := &pipeline.Result{
		Result:     halftone.Result{Frame: halftone.Frame{Width: 10, Height: 20}, Params: halftone.DefaultParams()},
		Tiles:      []string{"star.svg"},
		InputHash:  "abc",
		ResultHash: "def",
	}

	rec := NewRecord("photo.png", res, opts)
	if !ValidID(rec.ID) {
		t.Errorf("ID %q is not a uuid", rec.ID)
	}
	if rec.Frame != res.Result.Frame || rec.ResultHash != "def" || rec.Tiles[0] != "star.svg" {
		t.Errorf("record = %+v", rec)
	}
	if !rec.HasFormat("png") || rec.HasFormat("json") {
		t.Error("HasFormat mismatch")
	}
	if ro := rec.RenderOptions(); ro.Fill != "#112233" || ro.Scale != 2 {
		t.Errorf("RenderOptions = %+v", ro)
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(uuid.NewString()) {
		t.Error("uuid should be valid")
	}
	for _, id := range []string{"", "abc", "../x"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewMongoStore(ctx, "notmongo://localhost", ""); err == nil {
		t.Error("NewMongoStore should reject a non-mongodb scheme")
	}
}
