package service

import (
	"context"
	"errors"
	"testing"

	"taskmate/internal/model"
)

func TestCategoryService_Create_NameRequired(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepository{})

	_, err := svc.Create(context.Background(), 1, &model.CategoryRequest{Name: "  "})
	if !errors.Is(err, model.ErrCategoryNameRequired) {
		t.Errorf("err = %v, want ErrCategoryNameRequired", err)
	}
}

func TestCategoryService_Create_TrimsName(t *testing.T) {
	var created *model.Category
	repo := &mockCategoryRepository{
		createFn: func(ctx context.Context, category *model.Category) error {
			category.ID = 3
			created = category
			return nil
		},
	}
	svc := NewCategoryService(repo)

	got, err := svc.Create(context.Background(), 1, &model.CategoryRequest{Name: "  Work  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Work" {
		t.Errorf("stored name = %q, want trimmed", created.Name)
	}
	if got.UserID != 1 {
		t.Errorf("user id = %d, want 1", got.UserID)
	}
}

func TestCategoryService_Update_NotOwnedLooksLikeMissing(t *testing.T) {
	repo := &mockCategoryRepository{
		updateFn: func(ctx context.Context, userID, id int64, name string) (*model.Category, error) {
			return nil, model.ErrCategoryNotFound
		},
	}
	svc := NewCategoryService(repo)

	_, err := svc.Update(context.Background(), 2, 1, &model.CategoryRequest{Name: "Theirs"})
	if !errors.Is(err, model.ErrCategoryNotFound) {
		t.Errorf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestCategoryService_Delete_NotOwnedLooksLikeMissing(t *testing.T) {
	repo := &mockCategoryRepository{
		deleteFn: func(ctx context.Context, userID, id int64) error {
			return model.ErrCategoryNotFound
		},
	}
	svc := NewCategoryService(repo)

	if err := svc.Delete(context.Background(), 2, 1); !errors.Is(err, model.ErrCategoryNotFound) {
		t.Errorf("err = %v, want ErrCategoryNotFound", err)
	}
}
