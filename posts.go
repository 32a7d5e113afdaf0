package spotly

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"

	"github.com/gorilla/schema"
)

var formEncoder = schema.NewEncoder()

// PostForm carries the fields of a post create or update. The backend
// takes these as multipart form fields, with coordinates as
// stringified numbers. Latitude and longitude are atomic: both set or
// both unset.
type PostForm struct {
	Title     string   `schema:"title" validate:"required,max=100"`
	Content   string   `schema:"content" validate:"required,max=1000"`
	Status    Status   `schema:"status" validate:"required,oneof=NATURA URBAN RURAL"`
	TagID     string   `schema:"tagId" validate:"required"`
	Latitude  *float64 `schema:"latitude,omitempty" validate:"required_with=Longitude"`
	Longitude *float64 `schema:"longitude,omitempty" validate:"required_with=Latitude"`
}

// PostImage is an optional image attachment for a post form.
type PostImage struct {
	Filename string
	Reader   io.Reader
}

// PostsService exposes the post operations.
type PostsService struct {
	c *Client
}

// List returns all posts, cached under KeyPostsAll.
func (s *PostsService) List(ctx context.Context) ([]Post, error) {
	return cachedFetch(ctx, s.c, KeyPostsAll, func(ctx context.Context) ([]Post, error) {
		var posts []Post
		err := s.c.get(ctx, "posts.list", "/posts", &posts)
		return posts, err
	})
}

// ListMine returns the current user's posts, cached under KeyPostsUser.
func (s *PostsService) ListMine(ctx context.Context) ([]Post, error) {
	return cachedFetch(ctx, s.c, KeyPostsUser, func(ctx context.Context) ([]Post, error) {
		var posts []Post
		err := s.c.get(ctx, "posts.listMine", "/posts/user", &posts)
		return posts, err
	})
}

// Create validates the form, submits it as multipart, and on success
// invalidates KeyPosts.
func (s *PostsService) Create(ctx context.Context, form PostForm, image *PostImage) error {
	if err := validateForm(form); err != nil {
		return err
	}
	body, contentType, err := encodePostForm(form, image)
	if err != nil {
		return err
	}
	if err := s.c.do(ctx, "posts.create", "POST", "/posts", body, contentType, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyPosts)
	return nil
}

// Update validates the form, submits it as multipart, and on success
// invalidates KeyPosts.
func (s *PostsService) Update(ctx context.Context, postID int, form PostForm, image *PostImage) error {
	if err := validateForm(form); err != nil {
		return err
	}
	body, contentType, err := encodePostForm(form, image)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/posts/%d", postID)
	if err := s.c.do(ctx, "posts.update", "PUT", path, body, contentType, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyPosts)
	return nil
}

// Delete removes a post and on success invalidates KeyPosts.
func (s *PostsService) Delete(ctx context.Context, postID int) error {
	if err := s.c.del(ctx, "posts.delete", fmt.Sprintf("/posts/%d", postID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyPosts)
	return nil
}

// encodePostForm renders the form and optional image into a multipart
// body. Coordinate fields are omitted entirely when unset.
func encodePostForm(form PostForm, image *PostImage) (body []byte, contentType string, err error) {
	values := url.Values{}
	if err := formEncoder.Encode(&form, values); err != nil {
		return nil, "", Errorf(CodeInternal, "encode form: %v", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range []string{"title", "content", "status", "tagId", "latitude", "longitude"} {
		for _, v := range values[field] {
			if err := w.WriteField(field, v); err != nil {
				return nil, "", Errorf(CodeInternal, "write form field %s: %v", field, err)
			}
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", Errorf(CodeInternal, "attach image: %v", err)
		}
		if _, err := io.Copy(fw, image.Reader); err != nil {
			return nil, "", Errorf(CodeInternal, "read image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", Errorf(CodeInternal, "finalize form: %v", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
