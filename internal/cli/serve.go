package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/halftone/internal/api"
	"github.com/matzehuels/halftone/pkg/cache"
	"github.com/matzehuels/halftone/pkg/pipeline"
	"github.com/matzehuels/halftone/pkg/store"
)

// Environment variables read by the serve command.
const (
	envRedisURL = "HALFTONE_REDIS_URL"
	envMongoURI = "HALFTONE_MONGO_URI"
)

const backendTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	redisURL  string        // shared cache; the local file cache when empty
	mongoURI  string        // shared record store
	mongoDB   string        // database holding the renders collection
	storeDir  string        // file store directory when no Mongo URI is given
	memory    bool          // keep records in memory only
	maxUpload int64         // bytes
	timeout   time.Duration // per request
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      ":8080",
		redisURL:  os.Getenv(envRedisURL),
		mongoURI:  os.Getenv(envMongoURI),
		mongoDB:   store.DefaultMongoDatabase,
		maxUpload: api.DefaultMaxUploadBytes,
		timeout:   api.DefaultRequestTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the halftone pipeline over HTTP",
		Long: `Serve runs the HTTP API.

Results and artifacts are cached in Redis when a URL is given (or ` + envRedisURL + `
is set) and in the local cache directory otherwise. Render records go to
MongoDB when a URI is given (or ` + envMongoURI + ` is set), to JSON files otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", opts.redisURL, "redis:// URL of a shared cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "mongodb:// URI of a shared record store")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "record directory (default ~/.config/halftone/renders)")
	cmd.Flags().BoolVar(&opts.memory, "memory", false, "keep render records in memory only")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", opts.maxUpload, "maximum request size in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	ch, cacheDesc, err := newServerCache(ctx, opts.redisURL)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	defer runner.Close()

	st, storeDesc, err := newServerStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	printSuccess("Serving on %s", StyleLink.Render(displayAddr(opts.addr)))
	printKeyValue("cache", cacheDesc)
	printKeyValue("store", storeDesc)
	if opts.memory && opts.mongoURI == "" {
		printWarning("Render records are lost when the server stops")
	}

	srv := api.New(api.Config{
		Runner:         runner,
		Store:          st,
		Logger:         c.Logger,
		MaxUploadBytes: opts.maxUpload,
		RequestTimeout: opts.timeout,
	})
	return srv.ListenAndServe(ctx, opts.addr)
}

// newServerCache opens Redis when url is set and checks connectivity;
// otherwise it uses the local file cache.
func newServerCache(ctx context.Context, url string) (cache.Cache, string, error) {
	if url == "" {
		ch, err := newCache(false)
		if err != nil {
			return nil, "", err
		}
		desc := "none"
		if fc, ok := ch.(*cache.FileCache); ok {
			desc = "file " + fc.Dir()
		}
		return ch, desc, nil
	}

	rc, err := cache.NewRedisCache(url)
	if err != nil {
		return nil, "", err
	}
	pingCtx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		rc.Close()
		return nil, "", fmt.Errorf("connect redis: %w", err)
	}
	return rc, "redis", nil
}

// newServerStore picks the record backend: MongoDB, memory or files.
func newServerStore(ctx context.Context, opts *serveOpts) (store.Store, string, error) {
	switch {
	case opts.mongoURI != "":
		connCtx, cancel := context.WithTimeout(ctx, backendTimeout)
		defer cancel()
		st, err := store.NewMongoStore(connCtx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return nil, "", err
		}
		return st, "mongodb " + opts.mongoDB + "." + store.MongoCollection, nil
	case opts.memory:
		return store.NewMemoryStore(), "memory", nil
	default:
		st, err := store.NewFileStore(opts.storeDir)
		if err != nil {
			return nil, "", err
		}
		return st, "file " + st.Path(), nil
	}
}

// displayAddr turns a listen address into a URL for display.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
