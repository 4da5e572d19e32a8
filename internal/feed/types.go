// Package feed drives a paginated feed through a tuner.
//
// This package enables skytune to:
// - Load the first page of a feed and any number of following pages
// - Reset de-duplication memory when the feed is reloaded from scratch
// - Pick the tuning passes that suit each kind of feed
package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

// ErrNoMorePages is returned by LoadMore once the upstream feed is exhausted.
var ErrNoMorePages = errors.New("no more pages")

// Type identifies the kind of feed being displayed.
type Type string

const (
	TypeHome      Type = "home"
	TypeGoodstuff Type = "goodstuff"
	TypeAuthor    Type = "author"
	TypeCustom    Type = "custom"
)

// ParseType validates a feed type name.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeHome, TypeGoodstuff, TypeAuthor, TypeCustom:
		return t, nil
	default:
		return "", fmt.Errorf("invalid feed type %q: must be home, goodstuff, author or custom", s)
	}
}

// Tuners returns the passes applied to every page of a feed of type t.
func Tuners(t Type) []tuner.TunerFn {
	switch t {
	case TypeHome:
		return []tuner.TunerFn{tuner.DedupReposts}
	case TypeGoodstuff:
		return []tuner.TunerFn{tuner.DedupReposts, tuner.LikedRepliesOnly}
	default:
		return nil
	}
}

// Fetcher returns the feed page at cursor and the cursor of the next page.
// An empty next cursor means there are no further pages.
type Fetcher interface {
	FetchPage(ctx context.Context, cursor string) ([]*tuner.FeedViewPost, string, error)
}
