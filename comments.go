package spotly

import (
	"context"
	"fmt"
)

// CommentForm carries the content of a comment create or update.
type CommentForm struct {
	Content string `json:"content" validate:"required"`
}

// CommentsService exposes the task comment operations.
type CommentsService struct {
	c *Client
}

// ListByTask returns a task's comments, cached under KeyTaskComments(taskID).
func (s *CommentsService) ListByTask(ctx context.Context, taskID int) ([]Comment, error) {
	return cachedFetch(ctx, s.c, KeyTaskComments(taskID), func(ctx context.Context) ([]Comment, error) {
		var comments []Comment
		err := s.c.get(ctx, "comments.list", fmt.Sprintf("/tasks/%d/comments", taskID), &comments)
		return comments, err
	})
}

// Create validates the form and on success invalidates the task's
// comment list.
func (s *CommentsService) Create(ctx context.Context, taskID int, form CommentForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	path := fmt.Sprintf("/tasks/%d/comments", taskID)
	if err := s.c.postJSON(ctx, "comments.create", path, form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTaskComments(taskID))
	return nil
}

// Update validates the form and on success invalidates the owning
// task's comment list. taskID scopes the invalidation; the server
// addresses the comment by id alone.
func (s *CommentsService) Update(ctx context.Context, commentID, taskID int, form CommentForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	path := fmt.Sprintf("/comments/%d", commentID)
	if err := s.c.putJSON(ctx, "comments.update", path, form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTaskComments(taskID))
	return nil
}

// Delete removes a comment and on success invalidates the owning
// task's comment list.
func (s *CommentsService) Delete(ctx context.Context, commentID, taskID int) error {
	if err := s.c.del(ctx, "comments.delete", fmt.Sprintf("/comments/%d", commentID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTaskComments(taskID))
	return nil
}
