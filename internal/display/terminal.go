// Package display provides terminal output formatting for skytune.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

const (
	separator       = " • "
	threadConnector = "  |\n"
)

// FormatterOption configures a TerminalFormatter.
type FormatterOption func(*TerminalFormatter)

// WithClock sets the time source for relative timestamps.
func WithClock(now func() time.Time) FormatterOption {
	return func(f *TerminalFormatter) {
		f.now = now
	}
}

// WithMaxText truncates post text longer than n characters. 0 disables it.
func WithMaxText(n int) FormatterOption {
	return func(f *TerminalFormatter) {
		f.maxText = n
	}
}

// TerminalFormatter formats tuned slices for terminal display.
type TerminalFormatter struct {
	now     func() time.Time
	maxText int
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter(opts ...FormatterOption) *TerminalFormatter {
	f := &TerminalFormatter{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatItem formats a single feed item for display.
func (f *TerminalFormatter) FormatItem(item *tuner.FeedViewPost) string {
	return f.formatItem(item, true)
}

func (f *TerminalFormatter) formatItem(item *tuner.FeedViewPost, showReplyTo bool) string {
	var lines []string

	if item.Reason != nil {
		lines = append(lines, "[REPOST] by "+formatHandle(item.Reason.By))
	}

	lines = append(lines, formatAuthor(item.Post.Author)+separator+f.FormatTimestamp(item.Post.IndexedAt))

	if parent := replyParent(item); parent != nil && showReplyTo {
		lines = append(lines, "  ↳ reply to "+formatHandle(parent.Author))
	}

	if text := item.Post.Record.Text; text != "" {
		if f.maxText > 0 {
			text = f.TruncateText(text, f.maxText)
		}
		for _, line := range strings.Split(text, "\n") {
			lines = append(lines, "  "+line)
		}
	}

	if engagement := formatEngagement(item.Post); engagement != "" {
		lines = append(lines, "  "+engagement)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatSlice formats one slice. Items of a thread or reply are joined by a
// connector; a reply hint is shown only when the parent is not right above.
func (f *TerminalFormatter) FormatSlice(s *tuner.Slice) string {
	formatted := make([]string, 0, len(s.Items))
	for i, item := range s.Items {
		showReplyTo := true
		if parent := replyParent(item); parent != nil && i > 0 {
			showReplyTo = s.Items[i-1].Post.URI != parent.URI
		}
		formatted = append(formatted, f.formatItem(item, showReplyTo))
	}

	body := strings.Join(formatted, threadConnector)
	if s.IsThread() {
		return fmt.Sprintf("[THREAD] %d posts\n", len(s.Items)) + body
	}
	return body
}

// FormatFeed formats tuned slices for display.
func (f *TerminalFormatter) FormatFeed(slices []*tuner.Slice) string {
	if len(slices) == 0 {
		return "No posts to display.\n"
	}

	var formatted []string
	for _, s := range slices {
		formatted = append(formatted, f.FormatSlice(s))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatTimestamp formats an ISO-8601 timestamp as relative time. Values
// that do not parse are shown as-is.
func (f *TerminalFormatter) FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TruncateText truncates text to maxLen characters, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

func formatEngagement(p *tuner.PostView) string {
	var parts []string

	if likes := p.Likes(); likes > 0 {
		parts = append(parts, pluralize(int(likes), "like"))
	}
	if p.RepostCount > 0 {
		parts = append(parts, pluralize(int(p.RepostCount), "repost"))
	}
	if p.ReplyCount > 0 {
		parts = append(parts, pluralize(int(p.ReplyCount), "reply"))
	}

	return strings.Join(parts, separator)
}

func formatAuthor(a tuner.Actor) string {
	if a.DisplayName != "" {
		return fmt.Sprintf("%s (%s)", a.DisplayName, formatHandle(a))
	}
	return formatHandle(a)
}

func formatHandle(a tuner.Actor) string {
	if a.Handle == "" {
		return a.DID
	}
	return "@" + a.Handle
}

func replyParent(item *tuner.FeedViewPost) *tuner.PostView {
	if item.Reply == nil {
		return nil
	}
	return item.Reply.Parent
}

// pluralize returns "N unit" or "N units" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	if unit == "reply" {
		return fmt.Sprintf("%d replies", n)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
