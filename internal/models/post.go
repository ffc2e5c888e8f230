package models

import "time"

// SnippetLength is how much of the body is shown in summarized views.
const SnippetLength = 50

type Post struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Text      string `gorm:"not null" json:"text"`
	Points    int    `gorm:"not null;default:0" json:"points"`
	CreatorID int    `gorm:"not null;index" json:"creator_id"`
	Creator   User   `gorm:"foreignKey:CreatorID" json:"creator"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TextSnippet returns the first SnippetLength characters of the body.
// Presentation truncation only, never stored.
func (p Post) TextSnippet() string {
	runes := []rune(p.Text)
	if len(runes) <= SnippetLength {
		return p.Text
	}
	return string(runes[:SnippetLength])
}

// FeedPost is a post as it appears in the paginated feed: creator attached,
// body truncated, and the viewer's own vote when a viewer is known.
type FeedPost struct {
	Post
	TextSnippet string `json:"text_snippet"`
	VoteStatus  *int   `json:"vote_status"`
}

type PaginatedPosts struct {
	Posts   []FeedPost `json:"posts"`
	HasMore bool       `json:"has_more"`
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

type UpdatePostRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

type VoteRequest struct {
	Value int `json:"value"`
}
