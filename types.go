package spotly

import (
	"encoding/json"
	"strings"
	"time"
)

// Status classifies the kind of place a post describes.
// The wire format may carry a legacy enum namespace prefix
// ("PostStatus.URBAN"); it is stripped on decode so the rest of the
// SDK only ever sees the bare value.
type Status string

const (
	StatusNatura Status = "NATURA"
	StatusUrban  Status = "URBAN"
	StatusRural  Status = "RURAL"
)

// NormalizeStatus strips a "PostStatus." or "TaskStatus." namespace
// prefix from a raw status string.
func NormalizeStatus(s string) string {
	s = strings.TrimPrefix(s, "PostStatus.")
	s = strings.TrimPrefix(s, "TaskStatus.")
	return s
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusNatura, StatusUrban, StatusRural:
		return true
	}
	return false
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Status(NormalizeStatus(raw))
	return nil
}

// User is a registered account.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a user-submitted place record. Image, coordinates and tag
// are optional; latitude and longitude are always both present or
// both absent.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	Image     *string   `json:"image"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	TagName   *string   `json:"tagName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
}

// HasLocation reports whether the post carries a full coordinate pair.
func (p *Post) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Tag is a lightweight label attachable to posts.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category groups content under a named, colored label.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is attached to a task on the dashboard.
type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
}

// Review is a per-user star rating and comment on a post.
type Review struct {
	ID        int       `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    int       `json:"userId"`
	Username  string    `json:"username"`
	PostID    int       `json:"postId"`
}

// Reviews is the review set for a post together with its derived
// aggregate, as returned by GET /posts/{id}/reviews.
type Reviews struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
	TotalReviews  int      `json:"totalReviews"`
}

// Favorite is a per-user bookmark of a post with optional private
// notes. The server embeds a full post snapshot.
type Favorite struct {
	ID        int       `json:"id"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Post      Post      `json:"post"`
}

// FavoriteStatus answers "has the current user favorited this post",
// as returned by GET /posts/{id}/favorite. The remaining fields are
// only set when Favorited is true.
type FavoriteStatus struct {
	Favorited bool       `json:"favorited"`
	ID        *int       `json:"id,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	PostID    *int       `json:"postId,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
