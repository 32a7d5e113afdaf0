package spotly

import "strconv"

// Cache keys are composite strings joined with ":". Invalidating a key
// also invalidates everything scoped under it, so KeyPosts covers
// KeyPostsAll and KeyPostsUser.
const (
	KeyPosts        = "posts"
	KeyPostsAll     = "posts:all"
	KeyPostsUser    = "posts:user"
	KeyTags         = "tags"
	KeyCategories   = "categories"
	KeyComments     = "comments"
	KeyReviews      = "reviews"
	KeyFavorites    = "favorites"
	KeyFavoritesAll = "favorites:all"
	KeyCurrentUser  = "currentUser"
)

// KeyTaskComments scopes the comment list of one task.
func KeyTaskComments(taskID int) string {
	return KeyComments + ":" + strconv.Itoa(taskID)
}

// KeyPostReviews scopes the review set (and aggregate) of one post.
func KeyPostReviews(postID int) string {
	return KeyReviews + ":post:" + strconv.Itoa(postID)
}

// KeyReview scopes a single review.
func KeyReview(reviewID int) string {
	return KeyReviews + ":" + strconv.Itoa(reviewID)
}

// KeyCategory scopes a single category.
func KeyCategory(categoryID int) string {
	return KeyCategories + ":" + strconv.Itoa(categoryID)
}

// KeyPostFavorite scopes the current user's favorite status for one post.
func KeyPostFavorite(postID int) string {
	return KeyFavorites + ":post:" + strconv.Itoa(postID)
}
