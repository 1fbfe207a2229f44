// Package loader fetches and decodes the assets a space needs before its
// first frame: the environment map and the spatial mesh.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// Asset names used in errors and logs.
const (
	AssetEnvironment = "environment"
	AssetMesh        = "mesh"
)

// DefaultFetchTimeout bounds a single remote fetch.
const DefaultFetchTimeout = 30 * time.Second

// Error reports a failed asset with its source.
type Error struct {
	Asset string
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Asset, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds loader settings.
type Config struct {
	// DecoderPath is an executable that reads a compressed GLB on stdin and
	// writes an uncompressed GLB to stdout.
	DecoderPath  string
	FetchTimeout time.Duration
	Client       *http.Client
	// BaseDir resolves relative asset paths. Empty means the working directory.
	BaseDir string
	// CacheBytes bounds the cache of remote fetches. Zero means
	// DefaultCacheBytes; negative disables caching.
	CacheBytes int
}

// Result is everything needed to draw the first frame.
type Result struct {
	Environment *environment.Map
	Scene       *Scene
}

// Loader fetches assets from http(s) URLs or local paths.
type Loader struct {
	cfg   Config
	cache *Cache
	log   *zap.Logger
}

// New creates a loader.
func New(cfg Config) *Loader {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	l := &Loader{cfg: cfg, log: logger.Named("loader")}
	switch {
	case cfg.CacheBytes == 0:
		l.cache = NewCache(DefaultCacheBytes)
	case cfg.CacheBytes > 0:
		l.cache = NewCache(cfg.CacheBytes)
	}
	return l
}

// Cache returns the remote fetch cache, or nil when caching is disabled.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load fetches the environment and mesh of sp concurrently. The first failure
// cancels the other fetch and is returned as *Error.
func (l *Loader) Load(ctx context.Context, sp *space.Space) (*Result, error) {
	start := time.Now()
	res := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env, err := l.LoadEnvironment(gctx, sp.EnvironmentURL)
		if err != nil {
			return &Error{Asset: AssetEnvironment, URL: sp.EnvironmentURL, Err: err}
		}
		res.Environment = env
		return nil
	})
	g.Go(func() error {
		sc, err := l.LoadScene(gctx, sp.MeshURL)
		if err != nil {
			return &Error{Asset: AssetMesh, URL: sp.MeshURL, Err: err}
		}
		res.Scene = sc
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.log.Info("assets loaded",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("envWidth", res.Environment.Width),
		zap.Int("envHeight", res.Environment.Height),
		zap.Int("meshes", len(res.Scene.Meshes)),
		zap.Int("collisionVolumes", res.Scene.Collision.Len()),
		zap.Int("clips", len(res.Scene.Clips)))
	return res, nil
}

// LoadEnvironment fetches and decodes an environment map.
func (l *Loader) LoadEnvironment(ctx context.Context, src string) (*environment.Map, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return environment.Decode(bytes.NewReader(data))
}

// Fetch returns the bytes behind an http(s) URL, file:// URL or path.
// Remote bytes are cached; local files are always reread.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("empty asset url")
	}
	if isRemote(src) {
		if l.cache != nil {
			if data, ok := l.cache.Get(src); ok {
				return data, nil
			}
		}
		data, err := l.fetchHTTP(ctx, src)
		if err != nil {
			return nil, err
		}
		if l.cache != nil {
			l.cache.Set(src, data)
		}
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(l.localPath(src))
}

func (l *Loader) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.cfg.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	l.log.Debug("fetched", zap.String("url", src), zap.Int("bytes", len(data)))
	return data, nil
}

func (l *Loader) localPath(src string) string {
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		src = u.Path
	}
	if !filepath.IsAbs(src) && l.cfg.BaseDir != "" {
		src = filepath.Join(l.cfg.BaseDir, src)
	}
	return src
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
