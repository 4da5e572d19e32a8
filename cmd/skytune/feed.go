package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gauthierbraillon/skytune/internal/bsky"
	"github.com/gauthierbraillon/skytune/internal/feed"
	"github.com/gauthierbraillon/skytune/internal/tuner"
	"github.com/gauthierbraillon/skytune/pkg/session"
)

// newFeedCmd creates the feed subcommand.
func newFeedCmd(a *app) *cobra.Command {
	var feedType, actor, feedURI string
	var pages, maxText int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Display a tuned feed",
		Long:  "Fetch one or more pages of a feed and display them as tuned slices. Posts shown on an earlier page are not repeated.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := feed.ParseType(feedType)
			if err != nil {
				return err
			}
			if pages < 1 {
				return fmt.Errorf("invalid page count %d: must be at least 1", pages)
			}

			token, err := accessToken(a)
			if err != nil {
				return err
			}
			client := bsky.NewClient(token, bsky.WithBaseURL(a.cfg.ServiceURL), bsky.WithLogger(a.log))

			source, err := feedSource(client, typ, actor, feedURI, a.cfg.PageSize)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			f := feed.New(source, typ, feed.WithLogger(a.log))
			all, err := f.Refresh(ctx)
			if err != nil {
				return err
			}
			for i := 1; i < pages && f.HasMore(); i++ {
				more, err := f.LoadMore(ctx)
				if err != nil {
					return err
				}
				all = append(all, more...)
			}

			return writeSlices(cmd.OutOrStdout(), all, asJSON, maxText)
		},
	}

	cmd.Flags().StringVarP(&feedType, "type", "t", string(feed.TypeHome), "Feed type (home, goodstuff, author, custom)")
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "Handle or DID for author feeds")
	cmd.Flags().StringVar(&feedURI, "feed-uri", "", "Feed generator AT-URI for custom feeds")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Number of pages to load")
	cmd.Flags().IntVar(&maxText, "max-text", 0, "Truncate post text to this many characters (0 = no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print slices as JSON")

	return cmd
}

// feedSource picks the client feed matching the requested type.
func feedSource(client *bsky.Client, typ feed.Type, actor, feedURI string, limit int) (feed.Fetcher, error) {
	switch typ {
	case feed.TypeHome:
		return client.HomeTimeline(limit), nil
	case feed.TypeGoodstuff:
		return client.CustomFeed(bsky.WhatsHotFeedURI, limit), nil
	case feed.TypeAuthor:
		if actor == "" {
			return nil, errors.New("author feeds need --actor")
		}
		return client.AuthorFeed(actor, limit), nil
	default:
		if feedURI == "" {
			return nil, errors.New("custom feeds need --feed-uri")
		}
		return client.CustomFeed(feedURI, limit), nil
	}
}

// accessToken prefers the configured token and falls back to the stored session.
func accessToken(a *app) (string, error) {
	if a.cfg.AccessToken != "" {
		return a.cfg.AccessToken, nil
	}
	sess, err := session.NewStore(a.cfg.Dir).Load()
	if errors.Is(err, session.ErrSessionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sess.AccessJwt, nil
}

// newTuneCmd creates the tune subcommand.
func newTuneCmd(a *app) *cobra.Command {
	var feedType string
	var resetBetween, asJSON bool
	var maxText int

	cmd := &cobra.Command{
		Use:   "tune <page.json>...",
		Short: "Tune saved feed pages",
		Long:  "Tune saved feed API responses in order through one tuner, as if they were successive pages of the same feed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := feed.ParseType(feedType)
			if err != nil {
				return err
			}
			fns := feed.Tuners(typ)
			tn := tuner.New(tuner.WithLogger(a.log))
			out := cmd.OutOrStdout()

			var all []*tuner.Slice
			for i, path := range args {
				page, err := readPage(path)
				if err != nil {
					return err
				}
				if resetBetween && i > 0 {
					tn.Reset()
				}

				slices := tn.Tune(page.Items, fns...)
				a.log.Info("tuned saved page", zap.String("path", path), zap.Int("slices", len(slices)))
				if asJSON {
					all = append(all, slices...)
					continue
				}
				fmt.Fprintf(out, "== Page %d (%s): %d slices ==\n\n", i+1, path, len(slices))
				if err := writeSlices(out, slices, false, maxText); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}

			if asJSON {
				return writeSlices(out, all, true, maxText)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedType, "type", "t", string(feed.TypeHome), "Feed type whose passes to apply (home, goodstuff, author, custom)")
	cmd.Flags().BoolVar(&resetBetween, "reset-between", false, "Forget seen posts between files")
	cmd.Flags().IntVar(&maxText, "max-text", 0, "Truncate post text to this many characters (0 = no limit)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print slices as JSON")

	return cmd
}

func readPage(path string) (*bsky.Page, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	page, err := bsky.ParsePage(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", path, err)
	}
	return page, nil
}
