package spotly

import (
	"context"
	"fmt"
)

// CategoryForm carries the fields of a category create or update.
type CategoryForm struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description,omitempty" validate:"max=200"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CategoriesService exposes the category operations.
type CategoriesService struct {
	c *Client
}

// List returns all categories, cached under KeyCategories.
func (s *CategoriesService) List(ctx context.Context) ([]Category, error) {
	return cachedFetch(ctx, s.c, KeyCategories, func(ctx context.Context) ([]Category, error) {
		var categories []Category
		err := s.c.get(ctx, "categories.list", "/categories", &categories)
		return categories, err
	})
}

// Get returns one category, cached under KeyCategory(id).
func (s *CategoriesService) Get(ctx context.Context, categoryID int) (Category, error) {
	return cachedFetch(ctx, s.c, KeyCategory(categoryID), func(ctx context.Context) (Category, error) {
		var category Category
		err := s.c.get(ctx, "categories.get", fmt.Sprintf("/categories/%d", categoryID), &category)
		return category, err
	})
}

// Create validates the form and on success invalidates KeyCategories.
func (s *CategoriesService) Create(ctx context.Context, form CategoryForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	if err := s.c.postJSON(ctx, "categories.create", "/categories", form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyCategories)
	return nil
}

// Update validates the form and on success invalidates KeyCategories,
// which also covers the per-category keys.
func (s *CategoriesService) Update(ctx context.Context, categoryID int, form CategoryForm) error {
	if err := validateForm(form); err != nil {
		return err
	}
	path := fmt.Sprintf("/categories/%d", categoryID)
	if err := s.c.putJSON(ctx, "categories.update", path, form, nil); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyCategories)
	return nil
}

// Delete removes a category and on success invalidates KeyCategories.
func (s *CategoriesService) Delete(ctx context.Context, categoryID int) error {
	if err := s.c.del(ctx, "categories.delete", fmt.Sprintf("/categories/%d", categoryID)); err != nil {
		return err
	}
	s.c.cache.Invalidate(KeyCategories)
	return nil
}
