package walkthrough

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// preloaded hands an already loaded result to Initialize.
type preloaded struct {
	res *loader.Result
}

func (p preloaded) Load(ctx context.Context, _ *space.Space) (*loader.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.res, nil
}

// Replace swaps old for an initialized engine built from opts, for hosts that
// reload a changed space. The new space is validated and its assets loaded
// before old is touched; if either fails, old is returned still running along
// with the error. Only then is old disposed, since renderer and overlay hold
// one space at a time. If the new engine still fails to initialize, old's
// space is reopened and that engine is returned with the error.
//
// old may be nil. The returned engine is nil only when nothing could be
// initialized.
func Replace(ctx context.Context, old *Engine, opts Options) (*Engine, error) {
	next, err := New(opts)
	if err != nil {
		return old, err
	}
	assets := next.opts.Loader

	res, err := assets.Load(ctx, next.space)
	if err != nil {
		return old, assetError(err)
	}

	if old != nil {
		old.Dispose()
	}
	next.opts.Loader = preloaded{res: res}
	err = next.Initialize(ctx)
	next.opts.Loader = assets
	if err == nil {
		return next, nil
	}
	next.Dispose()
	if old == nil {
		return nil, err
	}

	next.log.Warn("replacement failed, reopening previous space", zap.Error(err))
	restored, rerr := New(old.opts)
	if rerr == nil {
		rerr = restored.Initialize(ctx)
	}
	if rerr != nil {
		return nil, errors.Join(err, rerr)
	}
	return restored, err
}
