// Package cache is the normalized client-side cache used by API consumers.
// It keeps locally cached posts consistent with server mutations without a
// full refetch: votes are mirrored with the same swing arithmetic the server
// applies, deleted posts are tombstoned rather than compacted out of page
// lists, and creating a post invalidates every cached feed page.
//
// Every mutation's cache effect is a pure function from (prior snapshot,
// mutation result) to a new snapshot, looked up by mutation name, so the
// update logic is testable on its own.
package cache

import "strings"

// CachedUser is the normalized user entity.
type CachedUser struct {
	ID       int
	Username string
}

// CachedPost is the normalized post entity. VoteStatus is the cached viewer's
// own vote (+1, -1, or nil). Deleted marks a tombstone: the entity stays in
// page lists and renderers must skip it.
type CachedPost struct {
	ID          int
	Title       string
	TextSnippet string
	Points      int
	VoteStatus  *int
	CreatorID   int
	Deleted     bool
}

// Page is one fetched feed page, in fetch order.
type Page struct {
	PostIDs []int
	HasMore bool
}

// Snapshot is an immutable view of the cache. Update functions never mutate a
// snapshot in place; they clone and return a new one.
type Snapshot struct {
	Posts map[int]CachedPost
	Users map[int]CachedUser
	Pages []Page
	MeID  *int
}

func NewSnapshot() Snapshot {
	return Snapshot{
		Posts: map[int]CachedPost{},
		Users: map[int]CachedUser{},
	}
}

// Clone deep-copies the snapshot so updates stay pure.
func (s Snapshot) Clone() Snapshot {
	next := Snapshot{
		Posts: make(map[int]CachedPost, len(s.Posts)),
		Users: make(map[int]CachedUser, len(s.Users)),
	}
	for id, p := range s.Posts {
		next.Posts[id] = p
	}
	for id, u := range s.Users {
		next.Users[id] = u
	}
	if s.Pages != nil {
		next.Pages = make([]Page, len(s.Pages))
		for i, page := range s.Pages {
			ids := make([]int, len(page.PostIDs))
			copy(ids, page.PostIDs)
			next.Pages[i] = Page{PostIDs: ids, HasMore: page.HasMore}
		}
	}
	if s.MeID != nil {
		id := *s.MeID
		next.MeID = &id
	}
	return next
}

// MutationResult carries whatever a mutation response contained; update
// functions read the fields relevant to them.
type MutationResult struct {
	PostID int
	Value  int

	Post *CachedPost
	User *CachedUser

	// Err is the server's error message, empty on success.
	Err string
}

// UpdateFunc computes the cache state after a mutation.
type UpdateFunc func(prev Snapshot, result MutationResult) Snapshot

// Registry maps mutation names to their cache updates.
func Registry() map[string]UpdateFunc {
	return map[string]UpdateFunc{
		"vote":       updateAfterVote,
		"createPost": updateAfterCreatePost,
		"deletePost": updateAfterDeletePost,
		"login":      updateAfterLogin,
		"register":   updateAfterLogin,
		"logout":     updateAfterLogout,
	}
}

// Apply runs the registered update for a mutation. Unknown mutations leave
// the snapshot untouched.
func Apply(prev Snapshot, mutation string, result MutationResult) Snapshot {
	update, ok := Registry()[mutation]
	if !ok {
		return prev
	}
	return update(prev, result)
}

// updateAfterVote mirrors the server's vote arithmetic locally: a fresh vote
// moves points by ±1, a flip by ±2, and re-casting the cached direction does
// nothing.
func updateAfterVote(prev Snapshot, result MutationResult) Snapshot {
	if result.Err != "" {
		return prev
	}

	post, ok := prev.Posts[result.PostID]
	if !ok || post.Deleted {
		return prev
	}
	if post.VoteStatus != nil && *post.VoteStatus == result.Value {
		return prev
	}

	delta := result.Value
	if post.VoteStatus != nil {
		delta = 2 * result.Value
	}

	next := prev.Clone()
	post.Points += delta
	value := result.Value
	post.VoteStatus = &value
	next.Posts[post.ID] = post
	return next
}

// updateAfterCreatePost caches the new post and drops every fetched page:
// the next feed read goes back to the server instead of risking an
// inconsistent local merge.
func updateAfterCreatePost(prev Snapshot, result MutationResult) Snapshot {
	if result.Err != "" || result.Post == nil {
		return prev
	}

	next := prev.Clone()
	next.Posts[result.Post.ID] = *result.Post
	next.Pages = nil
	return next
}

// updateAfterDeletePost tombstones the post. Page lists keep the id; readers
// of the feed view see the hole skipped.
func updateAfterDeletePost(prev Snapshot, result MutationResult) Snapshot {
	if result.Err != "" {
		return prev
	}

	post, ok := prev.Posts[result.PostID]
	if !ok {
		return prev
	}

	next := prev.Clone()
	post.Deleted = true
	next.Posts[post.ID] = post
	return next
}

func updateAfterLogin(prev Snapshot, result MutationResult) Snapshot {
	if result.Err != "" || result.User == nil {
		return prev
	}

	next := prev.Clone()
	next.Users[result.User.ID] = *result.User
	id := result.User.ID
	next.MeID = &id
	return next
}

func updateAfterLogout(prev Snapshot, result MutationResult) Snapshot {
	next := prev.Clone()
	next.MeID = nil
	return next
}

// MergePage appends a freshly fetched feed page. Pages are kept in fetch
// order and never re-sorted or deduplicated: each page is bounded by the
// previous page's oldest timestamp, so they are disjoint by construction.
func MergePage(prev Snapshot, posts []CachedPost, hasMore bool) Snapshot {
	next := prev.Clone()

	page := Page{PostIDs: make([]int, 0, len(posts)), HasMore: hasMore}
	for _, p := range posts {
		next.Posts[p.ID] = p
		page.PostIDs = append(page.PostIDs, p.ID)
	}
	next.Pages = append(next.Pages, page)
	return next
}

// FeedView concatenates all fetched pages in fetch order, skipping
// tombstoned posts. hasMore is the most recent page's flag; an empty cache
// reports hasMore=true since nothing has been fetched yet.
func FeedView(s Snapshot) ([]CachedPost, bool) {
	if len(s.Pages) == 0 {
		return nil, true
	}

	var posts []CachedPost
	for _, page := range s.Pages {
		for _, id := range page.PostIDs {
			post, ok := s.Posts[id]
			if !ok || post.Deleted {
				continue
			}
			posts = append(posts, post)
		}
	}
	return posts, s.Pages[len(s.Pages)-1].HasMore
}

// IsAuthError reports whether a server error message is the authentication
// failure clients respond to by redirecting to the login flow.
func IsAuthError(message string) bool {
	return strings.Contains(message, "user not authenticated")
}
