// Package watch reloads a space descriptor when it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Update is the result of one reload.
type Update struct {
	Space *space.Space
	Err   error
}

// Watcher watches one descriptor file. The parent directory is watched
// rather than the file so that atomic rename-on-save is seen.
type Watcher struct {
	path     string
	name     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	updates  chan Update
	log      *zap.Logger
}

// New starts watching path. Zero debounce means DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		name:     filepath.Base(abs),
		debounce: debounce,
		fs:       fs,
		updates:  make(chan Update, 1),
		log:      logger.Named("watch"),
	}, nil
}

// Updates delivers reload results. When the consumer lags, only the newest
// result is kept.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Run processes file events until ctx is done, then closes the watcher and
// the Updates channel.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.name || !relevant(event.Op) {
				continue
			}
			w.log.Debug("descriptor changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	sp, err := space.LoadFile(w.path)
	if err != nil {
		w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.log.Info("descriptor reloaded", zap.String("path", w.path), zap.Int("nodes", len(sp.Nodes)))
	}
	u := Update{Space: sp, Err: err}
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		// Drop the stale result the consumer has not read yet.
		select {
		case <-w.updates:
		default:
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
