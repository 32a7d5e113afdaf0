package spotly

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotly/spotly-go/testutil"
)

func TestReviews_ZeroRatingNeverReachesNetwork(t *testing.T) {
	ts := testutil.NewServer()
	client := newTestClient(t, ts)

	_, err := client.Reviews().Create(context.Background(), 7, ReviewForm{Comment: "Lovely"})
	require.Error(t, err)

	sdkErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, sdkErr.Code)
	assert.Equal(t, "select a rating", sdkErr.Message)
	assert.Empty(t, ts.Requests())
}

func TestReviews_RatingOutOfRangeRejected(t *testing.T) {
	ts := testutil.NewServer()
	client := newTestClient(t, ts)

	_, err := client.Reviews().Create(context.Background(), 7, ReviewForm{Rating: 6, Comment: "Lovely"})
	require.Error(t, err)

	sdkErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, sdkErr.Code)
	assert.Empty(t, ts.Requests())
}

func TestReviews_CreateInvalidatesPostReviewsAndPosts(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts", http.StatusOK, []Post{}).
		HandleJSON("GET /posts/7/reviews", http.StatusOK, Reviews{}).
		HandleJSON("GET /posts/8/reviews", http.StatusOK, Reviews{}).
		HandleJSON("POST /posts/7/reviews", http.StatusCreated, Review{ID: 3, Rating: 5, Comment: "Lovely", PostID: 7})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Posts().List(ctx)
	require.NoError(t, err)
	_, err = client.Reviews().ListByPost(ctx, 7)
	require.NoError(t, err)
	_, err = client.Reviews().ListByPost(ctx, 8)
	require.NoError(t, err)

	review, err := client.Reviews().Create(ctx, 7, ReviewForm{Rating: 5, Comment: "Lovely"})
	require.NoError(t, err)
	assert.Equal(t, 3, review.ID)

	assert.False(t, client.Cache().Fresh(KeyPostReviews(7)), "reviewed post's set must be stale")
	assert.False(t, client.Cache().Fresh(KeyPostsAll), "post list aggregate must be stale")
	assert.True(t, client.Cache().Fresh(KeyPostReviews(8)), "other posts' reviews stay fresh")
}

func TestReviews_UpdateScopesInvalidationByResponsePostID(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts/7/reviews", http.StatusOK, Reviews{}).
		HandleJSON("GET /posts/8/reviews", http.StatusOK, Reviews{}).
		HandleJSON("PUT /reviews/3", http.StatusOK, Review{ID: 3, Rating: 4, Comment: "Still good", PostID: 7})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Reviews().ListByPost(ctx, 7)
	require.NoError(t, err)
	_, err = client.Reviews().ListByPost(ctx, 8)
	require.NoError(t, err)

	_, err = client.Reviews().Update(ctx, 3, ReviewForm{Rating: 4, Comment: "Still good"})
	require.NoError(t, err)

	assert.False(t, client.Cache().Fresh(KeyPostReviews(7)))
	assert.True(t, client.Cache().Fresh(KeyPostReviews(8)))
}

func TestReviews_UpdateWithoutPostIDFlushesNamespace(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts/7/reviews", http.StatusOK, Reviews{}).
		HandleJSON("PUT /reviews/3", http.StatusOK, Review{ID: 3, Rating: 4, Comment: "Still good"})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Reviews().ListByPost(ctx, 7)
	require.NoError(t, err)

	_, err = client.Reviews().Update(ctx, 3, ReviewForm{Rating: 4, Comment: "Still good"})
	require.NoError(t, err)

	assert.False(t, client.Cache().Fresh(KeyPostReviews(7)), "whole review namespace must be flushed")
}

func TestReviews_Delete(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts/7/reviews", http.StatusOK, Reviews{TotalReviews: 1}).
		HandleJSON("DELETE /reviews/3", http.StatusOK, map[string]string{"message": "deleted"})
	client := newTestClient(t, ts)
	ctx := context.Background()

	_, err := client.Reviews().ListByPost(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, client.Reviews().Delete(ctx, 3, 7))
	assert.False(t, client.Cache().Fresh(KeyPostReviews(7)))
	assert.Equal(t, 1, ts.Count("DELETE", "/reviews/3"))
}

func TestReviews_ListDecodesAggregate(t *testing.T) {
	ts := testutil.NewServer().
		HandleJSON("GET /posts/7/reviews", http.StatusOK, Reviews{
			Reviews:       []Review{{ID: 1, Rating: 4}, {ID: 2, Rating: 5}},
			AverageRating: 4.5,
			TotalReviews:  2,
		})
	client := newTestClient(t, ts)

	reviews, err := client.Reviews().ListByPost(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, reviews.Reviews, 2)
	assert.Equal(t, 4.5, reviews.AverageRating)
	assert.Equal(t, 2, reviews.TotalReviews)
}
