// Package model defines the post records exchanged with the remote API and the drafts edited locally.
package model

import "strconv"

// PostID is the server-assigned identifier of a post. It never changes once assigned.
type PostID int

func (id PostID) String() string {
	return strconv.Itoa(int(id))
}

// ParsePostID parses a decimal post id as found in a URL path.
func ParsePostID(s string) (PostID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return PostID(n), nil
}

type Post struct {
	ID     PostID `json:"id"`
	UserID int    `json:"userId,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// NewDraft is the buffer behind the create form. It has no id until the server assigns one.
type NewDraft struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// EditDraft is the buffer behind the edit form, seeded from an existing post.
type EditDraft struct {
	ID     PostID `json:"id"`
	UserID int    `json:"userId,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// EditDraftFrom copies p into a fresh draft.
func EditDraftFrom(p Post) EditDraft {
	return EditDraft{
		ID:     p.ID,
		UserID: p.UserID,
		Title:  p.Title,
		Body:   p.Body,
	}
}

// Post returns the full replacement record described by the draft.
func (d EditDraft) Post() Post {
	return Post{
		ID:     d.ID,
		UserID: d.UserID,
		Title:  d.Title,
		Body:   d.Body,
	}
}
