package spotly

import (
	"context"
	"fmt"
)

// ReviewForm carries the fields of a review create or update. A zero
// rating means the user never picked a star; it is rejected before any
// network dispatch.
type ReviewForm struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=500"`
}

// ReviewsService exposes the review operations.
type ReviewsService struct {
	c *Client
}

// ListByPost returns a post's reviews plus the derived aggregate,
// cached under KeyPostReviews(postID).
func (s *ReviewsService) ListByPost(ctx context.Context, postID int) (Reviews, error) {
	return cachedFetch(ctx, s.c, KeyPostReviews(postID), func(ctx context.Context) (Reviews, error) {
		var reviews Reviews
		err := s.c.get(ctx, "reviews.listByPost", fmt.Sprintf("/posts/%d/reviews", postID), &reviews)
		return reviews, err
	})
}

// Get returns one review, cached under KeyReview(id).
func (s *ReviewsService) Get(ctx context.Context, reviewID int) (Review, error) {
	return cachedFetch(ctx, s.c, KeyReview(reviewID), func(ctx context.Context) (Review, error) {
		var review Review
		err := s.c.get(ctx, "reviews.get", fmt.Sprintf("/reviews/%d", reviewID), &review)
		return review, err
	})
}

// Create validates the form and submits a review for the post. On
// success it invalidates the post's review set and the post list,
// whose aggregate rating is derived from reviews.
func (s *ReviewsService) Create(ctx context.Context, postID int, form ReviewForm) (Review, error) {
	if form.Rating == 0 {
		return Review{}, NewError(CodeInvalidArgument, "select a rating")
	}
	if err := validateForm(form); err != nil {
		return Review{}, err
	}

	var review Review
	path := fmt.Sprintf("/posts/%d/reviews", postID)
	if err := s.c.postJSON(ctx, "reviews.create", path, form, &review); err != nil {
		return Review{}, err
	}
	s.c.cache.Invalidate(KeyPostReviews(postID), KeyPosts)
	return review, nil
}

// Update validates the form and replaces a review's rating and
// comment. On success it invalidates the owning post's review set and
// the post list; when the server response does not carry the post id,
// the whole review namespace is flushed instead.
func (s *ReviewsService) Update(ctx context.Context, reviewID int, form ReviewForm) (Review, error) {
	if form.Rating == 0 {
		return Review{}, NewError(CodeInvalidArgument, "select a rating")
	}
	if err := validateForm(form); err != nil {
		return Review{}, err
	}

	var review Review
	path := fmt.Sprintf("/reviews/%d", reviewID)
	if err := s.c.putJSON(ctx, "reviews.update", path, form, &review); err != nil {
		return Review{}, err
	}
	if review.PostID != 0 {
		s.c.cache.Invalidate(KeyPostReviews(review.PostID), KeyReview(reviewID), KeyPosts)
	} else {
		s.c.cache.Invalidate(KeyReviews, KeyPosts)
	}
	return review, nil
}

// Delete removes a review. postID scopes the cache invalidation: the
// post's review set and the post list are flushed on success.
func (s *ReviewsService) Delete(ctx context.Context, reviewID, postID int) error {
	if err := s.c.del(ctx, "reviews.delete", fmt.Sprintf("/reviews/%d", reviewID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyPostReviews(postID), KeyReview(reviewID), KeyPosts)
	return nil
}
