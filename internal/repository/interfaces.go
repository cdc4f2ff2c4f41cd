package repository

import (
	"context"
	"time"

	"taskmate/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// AuthTokenRepository is the server-side ledger of active tokens. A signed
// token is honored only while its (user_id, token) row exists.
type AuthTokenRepository interface {
	Create(ctx context.Context, userID int64, token string) error
	Exists(ctx context.Context, userID int64, token string) (bool, error)
	Delete(ctx context.Context, userID int64, token string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// CategoryRepository scopes every operation by the owning user.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, userID, id int64) (*model.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Category, error)
	Update(ctx context.Context, userID, id int64, name string) (*model.Category, error)
	Delete(ctx context.Context, userID, id int64) error
	ExistsForUser(ctx context.Context, userID, id int64) (bool, error)
}

// TodoRepository scopes every operation by the owning user. Missing and
// not-owned rows both surface as model.ErrTodoNotFound.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	GetByID(ctx context.Context, userID, id int64) (*model.Todo, error)
	List(ctx context.Context, userID int64, filter model.TodoFilter) ([]model.Todo, error)
	SearchByTitle(ctx context.Context, userID int64, title string) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, userID, id int64) error
	SetStatus(ctx context.Context, userID, id int64, status string) error
	// ListPendingDueAfter returns pending todos with a due date after t,
	// used to rehydrate the reminder registry at startup.
	ListPendingDueAfter(ctx context.Context, t time.Time) ([]model.Todo, error)
}

type DeviceTokenRepository interface {
	// Upsert creates or updates a device token for a user
	Upsert(ctx context.Context, userID int64, token, platform string) error
	// GetByUserID returns all device tokens for a user
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	// Delete removes a device token
	Delete(ctx context.Context, token string) error
	// DeleteAllForUser removes every device token registered to a user
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	List(ctx context.Context) ([]model.Song, error)
}
