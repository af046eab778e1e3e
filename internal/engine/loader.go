package engine

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/Iron-Ham/pdfcontainer/internal/logging"
)

// Loader deduplicates concurrent loads of the same source.
type Loader struct {
	engine Engine
	group  singleflight.Group
	logger *logging.Logger
}

// NewLoader wraps engine.
func NewLoader(engine Engine, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loader{engine: engine, logger: logger.WithComponent("loader")}
}

// Load returns the document for source. Callers that ask for the same source
// while a load is in flight share its result. The shared load keeps running
// when ctx is cancelled; only this caller stops waiting.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	ch := l.group.DoChan(source, func() (any, error) {
		return l.engine.Load(context.WithoutCancel(ctx), source)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			l.logger.Debug("shared document load", "source", source)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Document), nil
	}
}
