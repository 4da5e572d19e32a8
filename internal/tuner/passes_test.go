package tuner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAC150_DedupReposts_DropsLaterRepostOfShownPost(t *testing.T) {
	p := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	plain := NewSlice(p)
	rp := NewSlice(repost(p, "bob", "2024-05-01T09:00:00Z"))

	got := DedupReposts(New(), []*Slice{plain, rp})

	require.Len(t, got, 1)
	assert.Same(t, plain, got[0])
}

func TestAC151_DedupReposts_KeepsThreads(t *testing.T) {
	a := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	b := reply("at://alice/post/2", "alice", "2024-05-01T10:01:00Z", a)
	plain := NewSlice(a)
	thread := NewSlice(a, b)

	got := DedupReposts(New(), []*Slice{plain, thread})

	assert.Len(t, got, 2, "threads are never deduplicated")
}

func TestAC152_DedupReposts_DropsEveryDuplicateOfOnePost(t *testing.T) {
	p := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	q := post("at://carol/post/1", "carol", "2024-05-01T10:00:00Z")
	list := []*Slice{
		NewSlice(repost(p, "bob", "2024-05-01T12:00:00Z")),
		NewSlice(repost(p, "dave", "2024-05-01T11:00:00Z")),
		NewSlice(q),
		NewSlice(p),
	}

	got := DedupReposts(New(), list)

	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Items[0].Reason.By.DID)
	assert.Equal(t, q.Post.URI, got[1].URI())
}

func TestAC153_DedupReposts_InTune_KeepsNewestCopy(t *testing.T) {
	p := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	rp := repost(p, "bob", "2024-05-01T10:05:00Z")

	got := New().Tune([]*FeedViewPost{rp, p}, DedupReposts)

	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Items[0].Reason, "the repost sorts first and wins")
}

func TestAC154_LikedRepliesOnly_FiltersByLikes(t *testing.T) {
	parent := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	unliked := reply("at://bob/post/1", "bob", "2024-05-01T10:01:00Z", parent)
	liked := reply("at://carol/post/1", "carol", "2024-05-01T10:02:00Z", parent)
	liked.Post.LikeCount = likes(1)
	reposted := repost(reply("at://dave/post/1", "dave", "2024-05-01T10:03:00Z", parent), "erin", "2024-05-01T10:04:00Z")

	unlikedSlice := NewSlice(unliked)
	likedSlice := NewSlice(liked)
	repostSlice := NewSlice(reposted)
	plainSlice := NewSlice(parent)

	got := LikedRepliesOnly(New(), []*Slice{unlikedSlice, likedSlice, repostSlice, plainSlice})

	assert.Equal(t, []*Slice{likedSlice, repostSlice, plainSlice}, got)
}

func TestAC155_LikedRepliesOnly_ChecksReplyNotParent(t *testing.T) {
	parent := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	parent.Post.LikeCount = likes(40)
	r := reply("at://bob/post/1", "bob", "2024-05-01T10:01:00Z", parent)

	got := New().Tune([]*FeedViewPost{r}, LikedRepliesOnly)

	assert.Empty(t, got, "a flattened reply is judged by the reply's own likes")
}

func TestAC156_LikedRepliesOnly_KeepsUnlikedThreads(t *testing.T) {
	a := post("at://alice/post/1", "alice", "2024-05-01T10:00:00Z")
	b := reply("at://alice/post/2", "alice", "2024-05-01T10:01:00Z", a)

	got := LikedRepliesOnly(New(), []*Slice{NewSlice(a, b)})

	assert.Len(t, got, 1)
}

func TestAC157_LikedRepliesOnly_KeepsRepliesWithoutLikeCount(t *testing.T) {
	page := `[
		{
			"post": {"uri": "at://bob/post/1", "author": {"did": "bob", "handle": "bob.test"}, "indexedAt": "2024-05-01T10:01:00Z"},
			"reply": {"parent": {"uri": "at://alice/post/1", "author": {"did": "alice", "handle": "alice.test"}, "indexedAt": "2024-05-01T10:00:00Z"}}
		},
		{
			"post": {"uri": "at://carol/post/1", "author": {"did": "carol", "handle": "carol.test"}, "likeCount": 0, "indexedAt": "2024-05-01T09:01:00Z"},
			"reply": {"parent": {"uri": "at://alice/post/0", "author": {"did": "alice", "handle": "alice.test"}, "indexedAt": "2024-05-01T09:00:00Z"}}
		}
	]`
	var items []*FeedViewPost
	require.NoError(t, json.Unmarshal([]byte(page), &items))
	require.Nil(t, items[0].Post.LikeCount)

	got := New().Tune(items, LikedRepliesOnly)

	require.Len(t, got, 1, "only the reply reported with zero likes should be dropped")
	assert.Equal(t, []string{"at://alice/post/1", "at://bob/post/1"}, uris(got[0]))
}
