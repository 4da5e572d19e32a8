package bsky

import (
	"context"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

// Source is one feed of the client, fetched page by page.
type Source struct {
	fetch func(ctx context.Context, cursor string) (*Page, error)
}

// HomeTimeline returns the authenticated user's timeline as a Source.
func (c *Client) HomeTimeline(limit int) *Source {
	return &Source{fetch: func(ctx context.Context, cursor string) (*Page, error) {
		return c.GetTimeline(ctx, cursor, limit)
	}}
}

// AuthorFeed returns actor's posts and reposts as a Source.
func (c *Client) AuthorFeed(actor string, limit int) *Source {
	return &Source{fetch: func(ctx context.Context, cursor string) (*Page, error) {
		return c.GetAuthorFeed(ctx, actor, cursor, limit)
	}}
}

// CustomFeed returns a feed generator's output as a Source.
func (c *Client) CustomFeed(feedURI string, limit int) *Source {
	return &Source{fetch: func(ctx context.Context, cursor string) (*Page, error) {
		return c.GetFeed(ctx, feedURI, cursor, limit)
	}}
}

// FetchPage returns the items at cursor and the cursor of the next page.
func (s *Source) FetchPage(ctx context.Context, cursor string) ([]*tuner.FeedViewPost, string, error) {
	page, err := s.fetch(ctx, cursor)
	if err != nil {
		return nil, "", err
	}
	return page.Items, page.Cursor, nil
}
