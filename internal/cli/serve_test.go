package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/halftone/pkg/cache"
	"github.com/matzehuels/halftone/pkg/store"
)

func TestNewServerStore(t *testing.T) {
	ctx := context.Background()

	st, desc, err := newServerStore(ctx, &serveOpts{memory: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.MemoryStore); !ok || desc != "memory" {
		t.Errorf("memory store = %T %q", st, desc)
	}

	dir := t.TempDir()
	st, desc, err = newServerStore(ctx, &serveOpts{storeDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.FileStore); !ok || desc != "file "+dir {
		t.Errorf("file store = %T %q", st, desc)
	}

	if _, _, err := newServerStore(ctx, &serveOpts{mongoURI: "notmongo://x", mongoDB: "t"}); err == nil {
		t.Error("expected an error for a bad mongo URI")
	}
}

func TestNewServerCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	ch, desc, err := newServerCache(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(*cache.FileCache); !ok || !strings.HasPrefix(desc, "file ") {
		t.Errorf("default cache = %T %q", ch, desc)
	}

	if _, _, err := newServerCache(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected an error for a non-redis URL")
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:9000":   "http://0.0.0.0:9000",
		"example.com:80": "http://example.com:80",
	}
	for addr, want := range tests {
		if got := displayAddr(addr); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", addr, got, want)
		}
	}
}
