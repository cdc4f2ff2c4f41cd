package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taskmate/internal/model"
	"taskmate/internal/repository"
)

// UserService handles account registration, credential checks and device
// token bookkeeping.
type UserService struct {
	users        repository.UserRepository
	deviceTokens repository.DeviceTokenRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, deviceTokens repository.DeviceTokenRepository) *UserService {
	return &UserService{
		users:        users,
		deviceTokens: deviceTokens,
	}
}

// ValidateSignup collects every validation failure so the client gets one
// complete list instead of fixing errors one at a time.
func ValidateSignup(req *model.SignupRequest) []string {
	var errs []string

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(req.Email, "@") {
		errs = append(errs, "email is invalid")
	}
	if req.Password == "" {
		errs = append(errs, "password is required")
	} else if len(req.Password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		errs = append(errs, "passwords do not match")
	}

	return errs
}

// Register creates a new account after uniqueness checks on email and phone.
func (s *UserService) Register(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	emailExists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if emailExists {
		return nil, model.ErrEmailExists
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		phoneExists, err := s.users.ExistsByPhone(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("check phone exists: %w", err)
		}
		if phoneExists {
			return nil, model.ErrPhoneExists
		}
		phone = &p
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Phone:          phone,
		PasswordHashed: string(hashed),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Printf("[User] Registered: id=%d email=%s", user.ID, user.Email)
	return user, nil
}

// Login resolves the identifier to an account and checks the password.
// Identifiers containing "@" are treated as emails, anything else as a phone
// number. Unknown identifier and wrong password both map to
// ErrInvalidCredentials so a caller cannot probe which accounts exist.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user *model.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.GetByPhone(ctx, identifier)
	}
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID returns the user with the given ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterDeviceToken records a push token for the user. Failures are
// logged, not surfaced; a bad push token must not fail a signin.
func (s *UserService) RegisterDeviceToken(ctx context.Context, userID int64, token, platform string) {
	if token == "" {
		return
	}
	if platform == "" {
		platform = model.PlatformAndroid
	}
	if err := s.deviceTokens.Upsert(ctx, userID, token, platform); err != nil {
		log.Printf("[User] Device token upsert FAILED: user=%d err=%v", userID, err)
		return
	}
	log.Printf("[User] Device token registered: user=%d platform=%s", userID, platform)
}

// ClearDeviceTokens removes every device token for the user, so a logged
// out account stops receiving pushes on all devices.
func (s *UserService) ClearDeviceTokens(ctx context.Context, userID int64) error {
	if err := s.deviceTokens.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("clear device tokens: %w", err)
	}
	return nil
}
