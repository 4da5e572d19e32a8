package display

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func postItem(uri, handle, indexedAt, text string) *tuner.FeedViewPost {
	return &tuner.FeedViewPost{Post: &tuner.PostView{
		URI:       uri,
		Author:    tuner.Actor{DID: "did:plc:" + handle, Handle: handle + ".test"},
		Record:    tuner.PostRecord{Text: text},
		IndexedAt: indexedAt,
	}}
}

func count(n int64) *int64 {
	return &n
}

func replyTo(item, parent *tuner.FeedViewPost) *tuner.FeedViewPost {
	item.Reply = &tuner.ReplyRef{Root: parent.Post, Parent: parent.Post}
	return item
}

func TestAC300_TerminalFeed_ShowsAuthorAndText(t *testing.T) {
	item := postItem("at://bob/1", "bob", "2024-05-01T11:00:00Z", "How to build CLI tools in Go")
	item.Post.Author.DisplayName = "Bob"

	output := NewTerminalFormatter(WithClock(fixedClock)).FormatItem(item)

	if !strings.Contains(output, "How to build CLI tools in Go") {
		t.Error("user should see post text in terminal output")
	}
	if !strings.Contains(output, "Bob (@bob.test)") {
		t.Errorf("user should see display name and handle, got:\n%s", output)
	}
}

func TestAC300_TerminalFeed_ShowsRepostIndicator(t *testing.T) {
	item := postItem("at://bob/1", "bob", "2024-05-01T11:00:00Z", "hello")
	item.Reason = &tuner.ReasonRepost{By: tuner.Actor{Handle: "carol.test"}, IndexedAt: "2024-05-01T11:30:00Z"}

	output := NewTerminalFormatter(WithClock(fixedClock)).FormatItem(item)

	if !strings.Contains(output, "[REPOST] by @carol.test") {
		t.Errorf("user should see who reposted, got:\n%s", output)
	}
}

func TestAC301_TerminalFeed_ShowsRelativeTimestamps(t *testing.T) {
	formatter := NewTerminalFormatter(WithClock(fixedClock))
	testCases := []struct {
		name      string
		timestamp string
		want      string
	}{
		{"seconds", "2024-05-01T11:59:30Z", "just now"},
		{"one minute", "2024-05-01T11:59:00Z", "1 minute ago"},
		{"minutes", "2024-05-01T11:30:00.000Z", "30 minutes ago"},
		{"hours", "2024-05-01T09:00:00Z", "3 hours ago"},
		{"days", "2024-04-29T12:00:00Z", "2 days ago"},
		{"old", "2024-04-01T08:00:00Z", "Apr 1, 2024"},
		{"future", "2024-05-01T12:05:00Z", "just now"},
		{"unparseable", "yesterday", "yesterday"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatter.FormatTimestamp(tc.timestamp); got != tc.want {
				t.Errorf("FormatTimestamp(%q) = %q, want %q", tc.timestamp, got, tc.want)
			}
		})
	}
}

func TestAC302_TerminalFeed_ShowsEngagement(t *testing.T) {
	item := postItem("at://bob/1", "bob", "2024-05-01T11:00:00Z", "hi")
	item.Post.LikeCount = count(1)
	item.Post.RepostCount = 2
	item.Post.ReplyCount = 3

	output := NewTerminalFormatter(WithClock(fixedClock)).FormatItem(item)

	if !strings.Contains(output, "1 like • 2 reposts • 3 replies") {
		t.Errorf("user should see engagement counts, got:\n%s", output)
	}
}

func TestAC303_TerminalFeed_HidesReplyHintUnderParent(t *testing.T) {
	parent := postItem("at://alice/1", "alice", "2024-05-01T10:00:00Z", "question")
	r := replyTo(postItem("at://dave/1", "dave", "2024-05-01T11:00:00Z", "answer"), parent)
	formatter := NewTerminalFormatter(WithClock(fixedClock))

	withParent := formatter.FormatSlice(tuner.NewSlice(parent, r))
	alone := formatter.FormatSlice(tuner.NewSlice(r))

	if strings.Contains(withParent, "reply to") {
		t.Errorf("reply hint should be hidden when the parent is shown above, got:\n%s", withParent)
	}
	if !strings.Contains(alone, "↳ reply to @alice.test") {
		t.Errorf("user should see who a lone reply answers, got:\n%s", alone)
	}
}

func TestAC304_TerminalFeed_HandlesEmptyFeedGracefully(t *testing.T) {
	output := NewTerminalFormatter().FormatFeed(nil)

	if output != "No posts to display.\n" {
		t.Errorf("user with an empty feed should see a friendly message, got %q", output)
	}
}

func TestTruncateText(t *testing.T) {
	f := NewTerminalFormatter()
	testCases := []struct {
		text   string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is long", 7, "this..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", 2, "..."},
	}

	for _, tc := range testCases {
		if got := f.TruncateText(tc.text, tc.maxLen); got != tc.want {
			t.Errorf("TruncateText(%q, %d) = %q, want %q", tc.text, tc.maxLen, got, tc.want)
		}
	}
}

func TestFormatFeed_MatchesGolden(t *testing.T) {
	bob := postItem("at://bob/1", "bob", "2024-05-01T11:00:00Z", "hello world")
	bob.Post.Author.DisplayName = "Bob"
	bob.Post.LikeCount = count(2)
	bob.Post.RepostCount = 1
	bob.Reason = &tuner.ReasonRepost{By: tuner.Actor{Handle: "carol.test"}, IndexedAt: "2024-05-01T11:30:00Z"}

	alice := postItem("at://alice/1", "alice", "2024-04-30T12:00:00Z", "first\nsecond")
	dave := replyTo(postItem("at://dave/1", "dave", "2024-05-01T11:58:00Z", "agreed"), alice)
	dave.Post.ReplyCount = 1

	erin1 := postItem("at://erin/1", "erin", "2024-04-20T00:00:00Z", "part one")
	erin2 := replyTo(postItem("at://erin/2", "erin", "2024-05-01T11:59:30Z", "part two"), erin1)

	frank := replyTo(postItem("at://frank/1", "frank", "2024-05-01T09:00:00Z", "nice"), alice)

	slices := []*tuner.Slice{
		tuner.NewSlice(bob),
		tuner.NewSlice(alice, dave),
		tuner.NewSlice(erin1, erin2),
		tuner.NewSlice(frank),
	}

	output := NewTerminalFormatter(WithClock(fixedClock)).FormatFeed(slices)

	g := goldie.New(t)
	g.Assert(t, "feed", []byte(output))
}

func TestFormatFeed_TruncatesLongText(t *testing.T) {
	item := postItem("at://bob/1", "bob", "2024-05-01T11:00:00Z", "a very long post that goes on")

	output := NewTerminalFormatter(WithClock(fixedClock), WithMaxText(10)).FormatFeed([]*tuner.Slice{tuner.NewSlice(item)})

	if !strings.Contains(output, "  a very ...\n") {
		t.Errorf("long text should be truncated, got:\n%s", output)
	}
}
