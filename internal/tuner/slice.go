package tuner

import (
	"fmt"
	"strings"
)

// Slice is a group of feed items rendered together: a single post, a
// repost, a reply with its parent, or a self-reply thread.
type Slice struct {
	Items []*FeedViewPost
}

// NewSlice creates a slice seeded with the given items.
func NewSlice(items ...*FeedViewPost) *Slice {
	return &Slice{Items: items}
}

// URI identifies the slice. Reply slices are identified by the reply,
// not by the parent that was attached for context.
func (s *Slice) URI() string {
	if len(s.Items) == 0 {
		return ""
	}
	if s.IsReply() {
		return s.Items[1].Post.URI
	}
	return s.Items[0].Post.URI
}

// TS is the sort timestamp: the repost time if the lead item is a
// repost, else the lead post's indexed time.
func (s *Slice) TS() string {
	if len(s.Items) == 0 {
		return ""
	}
	first := s.Items[0]
	if first.Reason != nil && first.Reason.IndexedAt != "" {
		return first.Reason.IndexedAt
	}
	return first.Post.IndexedAt
}

// IsThread reports whether the slice holds several posts by one author.
func (s *Slice) IsThread() bool {
	if len(s.Items) < 2 {
		return false
	}
	did := s.Items[0].Post.Author.DID
	for _, item := range s.Items[1:] {
		if item.Post.Author.DID != did {
			return false
		}
	}
	return true
}

// IsReply reports whether the slice is a lone reply with its parent attached.
func (s *Slice) IsReply() bool {
	return len(s.Items) == 2 && !s.IsThread()
}

// RootItem is the item the slice is about.
func (s *Slice) RootItem() *FeedViewPost {
	if len(s.Items) == 0 {
		return nil
	}
	if s.IsReply() {
		return s.Items[1]
	}
	return s.Items[0]
}

// ContainsURI reports whether any item in the slice is the post uri.
func (s *Slice) ContainsURI(uri string) bool {
	return s.indexOf(uri) != -1
}

func (s *Slice) indexOf(uri string) int {
	for i, item := range s.Items {
		if item.Post.URI == uri {
			return i
		}
	}
	return -1
}

// Insert places item right after the post it self-replies to, or at the
// end when that post is not part of the slice.
func (s *Slice) Insert(item *FeedViewPost) {
	if uri := selfReplyURI(item); uri != "" {
		if i := s.indexOf(uri); i != -1 {
			s.Items = append(s.Items, nil)
			copy(s.Items[i+2:], s.Items[i+1:])
			s.Items[i+1] = item
			return
		}
	}
	s.Items = append(s.Items, item)
}

// FlattenReplyParent prepends the lead item's reply parent so a lone reply
// renders with its context.
func (s *Slice) FlattenReplyParent() {
	if len(s.Items) == 0 {
		return
	}
	parent := s.Items[0].replyParent()
	if parent == nil || s.ContainsURI(parent.URI) {
		return
	}
	s.Items = append([]*FeedViewPost{{Post: parent}}, s.Items...)
}

// Describe renders the slice as a short multi-line dump for debug output.
func (s *Slice) Describe() string {
	var b strings.Builder
	thread := ""
	if s.IsThread() {
		thread = " (thread)"
	}
	fmt.Fprintf(&b, "- Slice %d%s -", len(s.Items), thread)
	for _, item := range s.Items {
		b.WriteString("\n  ")
		if item.Reason != nil {
			fmt.Fprintf(&b, "RP by %s: ", item.Reason.By.Handle)
		}
		b.WriteString(item.Post.Author.Handle)
		b.WriteString(": ")
		if parent := item.replyParent(); parent != nil {
			fmt.Fprintf(&b, "(Reply %s) ", parent.Author.Handle)
		}
		b.WriteString(item.Post.Record.Text)
	}
	return b.String()
}
