package tuner

// DedupReposts drops a slice when an earlier slice already shows its lead
// post. Threads are never dropped so a thread in progress keeps rendering.
func DedupReposts(_ *Tuner, list []*Slice) []*Slice {
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); {
			later := list[j]
			if !later.IsThread() && list[i].ContainsURI(later.Items[0].Post.URI) {
				list = append(list[:j], list[j+1:]...)
				continue
			}
			j++
		}
	}
	return list
}

// LikedRepliesOnly drops replies reported as having no likes. Threads,
// reposts and replies without a like count are kept.
func LikedRepliesOnly(_ *Tuner, list []*Slice) []*Slice {
	kept := list[:0]
	for _, s := range list {
		if !s.IsThread() {
			root := s.RootItem()
			if root.Reply != nil && root.Reason == nil && root.Post.LikeCount != nil && *root.Post.LikeCount == 0 {
				continue
			}
		}
		kept = append(kept, s)
	}
	return kept
}
