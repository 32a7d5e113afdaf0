package spotly

import (
	"context"
	"fmt"
	"strings"
)

// FavoriteForm carries the fields of a favorite create.
type FavoriteForm struct {
	PostID int     `json:"postId" validate:"required"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// FavoritesService exposes the favorite operations. A favorite is
// unique per (user, post); the server rejects a duplicate create, so
// Toggle is the safe way to flip the state from a button.
type FavoritesService struct {
	c *Client
}

// List returns the current user's favorites, cached under
// KeyFavoritesAll.
func (s *FavoritesService) List(ctx context.Context) ([]Favorite, error) {
	return cachedFetch(ctx, s.c, KeyFavoritesAll, func(ctx context.Context) ([]Favorite, error) {
		var favorites []Favorite
		err := s.c.get(ctx, "favorites.list", "/favorites", &favorites)
		return favorites, err
	})
}

// StatusForPost reports whether the current user has favorited the
// post, cached under KeyPostFavorite(postID).
func (s *FavoritesService) StatusForPost(ctx context.Context, postID int) (FavoriteStatus, error) {
	return cachedFetch(ctx, s.c, KeyPostFavorite(postID), func(ctx context.Context) (FavoriteStatus, error) {
		var status FavoriteStatus
		err := s.c.get(ctx, "favorites.status", fmt.Sprintf("/posts/%d/favorite", postID), &status)
		return status, err
	})
}

// Create bookmarks a post. On success it invalidates the favorites
// list and the post's favorite status. A favorite is unique per
// (user, post); when the server reports the post is already
// favorited, the error code is already_exists so callers can branch
// on the code instead of the message text.
func (s *FavoritesService) Create(ctx context.Context, form FavoriteForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	if err := s.c.postJSON(ctx, "favorites.create", "/favorites", form, nil); err != nil {
		if sdkErr, ok := AsError(err); ok && isDuplicateFavorite(sdkErr) {
			return NewError(CodeAlreadyExists, sdkErr.Message)
		}
		return err
	}
	s.c.cache.Invalidate(KeyFavoritesAll, KeyPostFavorite(form.PostID))
	return nil
}

// isDuplicateFavorite recognizes the backend's rejection of a second
// favorite for the same post. It answers 400 with a message naming the
// condition.
func isDuplicateFavorite(err *Error) bool {
	if err.Code != CodeInvalidArgument && err.Code != CodeConflict {
		return false
	}
	return strings.Contains(strings.ToLower(err.Message), "already in favorites")
}

// UpdateNotes replaces a favorite's private notes. On success it
// invalidates the favorite namespace.
func (s *FavoritesService) UpdateNotes(ctx context.Context, favoriteID int, notes *string) error {
	in := struct {
		Notes *string `json:"notes"`
	}{Notes: notes}
	path := fmt.Sprintf("/favorites/%d", favoriteID)
	if err := s.c.putJSON(ctx, "favorites.updateNotes", path, in, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyFavorites)
	return nil
}

// Delete removes a favorite by its own id. On success it invalidates
// the favorite namespace; the post id is not known at this call site.
func (s *FavoritesService) Delete(ctx context.Context, favoriteID int) error {
	if err := s.c.del(ctx, "favorites.delete", fmt.Sprintf("/favorites/%d", favoriteID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyFavorites)
	return nil
}

// DeleteByPost removes the current user's favorite of a post. On
// success it invalidates the favorites list and that post's favorite
// status.
func (s *FavoritesService) DeleteByPost(ctx context.Context, postID int) error {
	if err := s.c.del(ctx, "favorites.deleteByPost", fmt.Sprintf("/posts/%d/favorite", postID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyFavoritesAll, KeyPostFavorite(postID))
	return nil
}

// Toggle flips the favorite state of a post and returns the new state.
// When the status check raced another writer and the create hits an
// already-favorited rejection, Toggle converges on the favorited state
// instead of surfacing the rejection, and flushes the status key so the
// next read reflects server truth.
func (s *FavoritesService) Toggle(ctx context.Context, postID int) (favorited bool, err error) {
	status, err := s.StatusForPost(ctx, postID)
	if err != nil {
		return false, err
	}
	if status.Favorited {
		if err := s.DeleteByPost(ctx, postID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Create(ctx, FavoriteForm{PostID: postID}); err != nil {
		if sdkErr, ok := AsError(err); ok && sdkErr.Code == CodeAlreadyExists {
			s.c.cache.Invalidate(KeyFavoritesAll, KeyPostFavorite(postID))
			return true, nil
		}
		return false, err
	}
	return true, nil
}
