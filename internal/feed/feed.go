package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger. The feed's session id is attached to it.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Feed) {
		f.logger = logger
	}
}

// Feed is one live feed session: a fetcher, its cursor and the tuner that
// remembers what has been shown. A Feed is not safe for concurrent use.
type Feed struct {
	id      string
	typ     Type
	fetcher Fetcher
	tuner   *tuner.Tuner
	fns     []tuner.TunerFn
	logger  *zap.Logger

	cursor  string
	loaded  bool
	hasMore bool
}

// New creates a feed session reading pages from fetcher.
func New(fetcher Fetcher, typ Type, opts ...Option) *Feed {
	f := &Feed{
		id:      uuid.NewString(),
		typ:     typ,
		fetcher: fetcher,
		fns:     Tuners(typ),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(zap.String("feed_session", f.id), zap.String("feed_type", string(typ)))
	f.tuner = tuner.New(tuner.WithLogger(f.logger))
	return f
}

// ID returns the session id used in log fields.
func (f *Feed) ID() string { return f.id }

// Type returns the feed type.
func (f *Feed) Type() Type { return f.typ }

// HasMore reports whether LoadMore can fetch another page.
func (f *Feed) HasMore() bool {
	return !f.loaded || f.hasMore
}

// Refresh reloads the feed from its first page and forgets everything shown
// before.
func (f *Feed) Refresh(ctx context.Context) ([]*tuner.Slice, error) {
	items, next, err := f.fetcher.FetchPage(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	f.tuner.Reset()
	f.loaded = true
	f.setCursor(next)
	return f.tune(items), nil
}

// LoadMore fetches the page after the last one loaded. Before the first
// Refresh it loads the first page.
func (f *Feed) LoadMore(ctx context.Context) ([]*tuner.Slice, error) {
	if !f.HasMore() {
		return nil, ErrNoMorePages
	}

	items, next, err := f.fetcher.FetchPage(ctx, f.cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to load more: %w", err)
	}

	f.loaded = true
	f.setCursor(next)
	return f.tune(items), nil
}

func (f *Feed) setCursor(next string) {
	f.cursor = next
	f.hasMore = next != ""
}

func (f *Feed) tune(items []*tuner.FeedViewPost) []*tuner.Slice {
	slices := f.tuner.Tune(items, f.fns...)
	f.logger.Info("tuned feed page",
		zap.Int("items", len(items)),
		zap.Int("slices", len(slices)),
		zap.Int("seen", f.tuner.SeenCount()),
		zap.Bool("has_more", f.hasMore),
	)
	return slices
}
