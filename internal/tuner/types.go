// Package tuner assembles raw feed pages into display slices.
//
// This package enables skytune to:
// - Collapse same-author reply chains into a single thread slice
// - Attach reply parents for context when they have not been shown yet
// - Remember which posts were already shown across paginated loads
// - Run pluggable passes that filter or reorder the tuned slices
package tuner

// Actor is the basic profile view of an account.
type Actor struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

// PostRecord is the subset of the post record used for display.
type PostRecord struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// PostView is a hydrated post as returned by the feed API.
type PostView struct {
	URI         string     `json:"uri"`
	CID         string     `json:"cid,omitempty"`
	Author      Actor      `json:"author"`
	Record      PostRecord `json:"record"`
	ReplyCount  int64      `json:"replyCount"`
	RepostCount int64      `json:"repostCount"`
	LikeCount   *int64     `json:"likeCount,omitempty"`
	IndexedAt   string     `json:"indexedAt"`
}

// Likes returns the like count, or 0 when the API did not report one.
func (p *PostView) Likes() int64 {
	if p.LikeCount == nil {
		return 0
	}
	return *p.LikeCount
}

// ReplyRef points at the thread a reply belongs to.
type ReplyRef struct {
	Root   *PostView `json:"root,omitempty"`
	Parent *PostView `json:"parent,omitempty"`
}

// ReasonRepost explains why a post appears in someone else's feed.
type ReasonRepost struct {
	By        Actor  `json:"by"`
	IndexedAt string `json:"indexedAt"`
}

// FeedViewPost is one raw entry of a reverse-chronological feed page.
type FeedViewPost struct {
	Post   *PostView     `json:"post"`
	Reply  *ReplyRef     `json:"reply,omitempty"`
	Reason *ReasonRepost `json:"reason,omitempty"`
}

// replyParent returns the reply parent, or nil when the item is not a
// well-formed reply.
func (p *FeedViewPost) replyParent() *PostView {
	if p.Reply == nil {
		return nil
	}
	return p.Reply.Parent
}

// selfReplyURI returns the parent URI when the author is replying to
// themselves, and "" otherwise.
func selfReplyURI(item *FeedViewPost) string {
	parent := item.replyParent()
	if parent == nil || item.Post == nil {
		return ""
	}
	if parent.Author.DID != item.Post.Author.DID {
		return ""
	}
	return parent.URI
}
