package spotly

import (
	"context"
	"fmt"
)

// TagForm carries the single field of a tag create or update.
type TagForm struct {
	Name string `json:"name" validate:"required,max=20"`
}

// TagsService exposes the tag operations.
type TagsService struct {
	c *Client
}

// List returns all tags, cached under KeyTags.
func (s *TagsService) List(ctx context.Context) ([]Tag, error) {
	return cachedFetch(ctx, s.c, KeyTags, func(ctx context.Context) ([]Tag, error) {
		var tags []Tag
		err := s.c.get(ctx, "tags.list", "/tags", &tags)
		return tags, err
	})
}

// Create validates the form and on success invalidates KeyTags.
func (s *TagsService) Create(ctx context.Context, form TagForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	if err := s.c.postJSON(ctx, "tags.create", "/tags", form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTags)
	return nil
}

// Update validates the form and on success invalidates KeyTags.
func (s *TagsService) Update(ctx context.Context, tagID int, form TagForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	if err := s.c.putJSON(ctx, "tags.update", fmt.Sprintf("/tags/%d", tagID), form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTags)
	return nil
}

// Delete removes a tag and on success invalidates KeyTags.
func (s *TagsService) Delete(ctx context.Context, tagID int) error {
	if err := s.c.del(ctx, "tags.delete", fmt.Sprintf("/tags/%d", tagID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTags)
	return nil
}

// BulkDelete removes several tags in one call and on success
// invalidates KeyTags.
func (s *TagsService) BulkDelete(ctx context.Context, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return NewError(CodeInvalidArgument, "no tags selected")
	}
	in := struct {
		TagIDs []int `json:"tag_ids"`
	}{TagIDs: tagIDs}
	if err := s.c.postJSON(ctx, "tags.bulkDelete", "/tags/bulk-delete", in, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyTags)
	return nil
}
