package tuner

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// TunerFn is a pass run after the core algorithm. It receives the tuner
// and the current slice list and returns the list the next pass sees.
type TunerFn func(t *Tuner, list []*Slice) []*Slice

// Option configures a Tuner.
type Option func(*Tuner)

// WithLogger sets the logger used for malformed-input warnings and slice dumps.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tuner) {
		t.logger = logger
	}
}

// Tuner turns raw feed pages into slices and remembers which posts it has
// already returned. A Tuner belongs to one feed session and is not safe
// for concurrent use.
type Tuner struct {
	seenURIs map[string]struct{}
	logger   *zap.Logger
}

// New creates a Tuner with an empty seen set.
func New(opts ...Option) *Tuner {
	t := &Tuner{
		seenURIs: make(map[string]struct{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset forgets every post seen so far. Call it when the feed is reloaded
// from scratch, never between pages of the same load.
func (t *Tuner) Reset() {
	clear(t.seenURIs)
}

// HasSeen reports whether uri was part of a previously returned slice.
func (t *Tuner) HasSeen(uri string) bool {
	_, ok := t.seenURIs[uri]
	return ok
}

// SeenCount returns the size of the seen set.
func (t *Tuner) SeenCount() int {
	return len(t.seenURIs)
}

// Tune converts a newest-first page into slices ordered newest first,
// runs fns in order and records every returned post as seen.
func (t *Tuner) Tune(feed []*FeedViewPost, fns ...TunerFn) []*Slice {
	list := t.assemble(feed)

	list = slices.DeleteFunc(list, func(s *Slice) bool {
		return t.HasSeen(s.URI())
	})

	for _, s := range list {
		first := s.Items[0]
		parent := first.replyParent()
		if s.IsThread() || first.Reason != nil || parent == nil || t.HasSeen(parent.URI) {
			continue
		}
		s.FlattenReplyParent()
	}

	slices.SortStableFunc(list, func(a, b *Slice) int {
		return strings.Compare(b.TS(), a.TS())
	})

	for _, fn := range fns {
		list = fn(t, list)
	}

	for _, s := range list {
		for _, item := range s.Items {
			t.seenURIs[item.Post.URI] = struct{}{}
		}
		if ce := t.logger.Check(zap.DebugLevel, "tuned slice"); ce != nil {
			ce.Write(zap.String("uri", s.URI()), zap.String("slice", s.Describe()))
		}
	}

	if list == nil {
		list = []*Slice{}
	}
	return list
}

// assemble walks the page oldest first and folds self-replies into the
// slice holding their parent.
func (t *Tuner) assemble(feed []*FeedViewPost) []*Slice {
	var list []*Slice
	for i := len(feed) - 1; i >= 0; i-- {
		item := feed[i]
		if item == nil || item.Post == nil {
			t.logger.Warn("skipping feed item without post", zap.Int("index", i))
			continue
		}

		if uri := selfReplyURI(item); uri != "" {
			if parent := findContaining(list, uri); parent != nil {
				parent.Insert(item)
				continue
			}
		}
		list = append([]*Slice{NewSlice(item)}, list...)
	}
	return list
}

func findContaining(list []*Slice, uri string) *Slice {
	for _, s := range list {
		if s.ContainsURI(uri) {
			return s
		}
	}
	return nil
}
