// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/pkg/auth"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("a user with that email already exists")
	ErrUsernameTaken = errors.New("a user with that username already exists")
)

// Service handles user business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	passwords *auth.PasswordManager
	logger    logrus.FieldLogger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		passwords: auth.NewPasswordManager(cfg),
		logger:    logger.WithField("service", "user"),
	}
}

// RegisterRequest represents sign-up data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=150"`
}

// SetPasswordRequest represents a password change
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,max=150"`
}

// Profile is the public view of a user as seen by the viewer
type Profile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// ListResponse represents a page of users
type ListResponse struct {
	Users      []Profile             `json:"results"`
	Pagination pagination.Pagination `json:"pagination"`
}

// NewProfile builds a profile with the viewer-relative subscription flag
func NewProfile(u *User, isSubscribed bool) Profile {
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// Register creates a new user with a bcrypt hashed password
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if err := db.Model(&User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := s.passwords.HashPassword(req.Password, req.Username, email, req.FirstName, req.LastName)
	if err != nil {
		return nil, validation.NewError("password", err.Error())
	}

	u := User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		IsActive:  true,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")

	profile := NewProfile(&u, false)
	return &profile, nil
}

// GetByID retrieves a user entity
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// GetProfile retrieves a user's profile as seen by viewerID (0 for anonymous)
func (s *Service) GetProfile(ctx context.Context, id, viewerID uint) (*Profile, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.SubscribedAuthors(ctx, viewerID, []uint{u.ID})
	if err != nil {
		return nil, err
	}

	profile := NewProfile(u, subscribed[u.ID])
	return &profile, nil
}

// List returns a page of users ordered by username
func (s *Service) List(ctx context.Context, params pagination.Params, viewerID uint) (*ListResponse, error) {
	params = params.Normalize(s.config.Pagination.DefaultLimit, s.config.Pagination.MaxLimit)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&User{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	if err := db.Where("is_active = ?", true).
		Order("username ASC").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	profiles, err := s.Profiles(ctx, users, viewerID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Users:      profiles,
		Pagination: pagination.New(params, total),
	}, nil
}

// Profiles converts users to profiles with one subscription lookup for the whole batch
func (s *Service) Profiles(ctx context.Context, users []User, viewerID uint) ([]Profile, error) {
	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	subscribed, err := s.SubscribedAuthors(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, len(users))
	for i := range users {
		profiles[i] = NewProfile(&users[i], subscribed[users[i].ID])
	}
	return profiles, nil
}

// SetPassword changes the password after verifying the current one
func (s *Service) SetPassword(ctx context.Context, userID uint, req *SetPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.VerifyPassword(req.CurrentPassword, u.Password); err != nil {
		return validation.NewError("current_password", "invalid password")
	}

	hash, err := s.passwords.HashPassword(req.NewPassword, u.Username, u.Email, u.FirstName, u.LastName)
	if err != nil {
		return validation.NewError("new_password", err.Error())
	}

	if err := s.db.WithContext(ctx).Model(u).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.WithField("user_id", u.ID).Info("password changed")
	return nil
}

// SubscribedAuthors reports which of authorIDs the viewer follows.
// Anonymous viewers (id 0) follow nobody.
func (s *Service) SubscribedAuthors(ctx context.Context, viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if viewerID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var followed []uint
	err := s.db.WithContext(ctx).Model(&Subscription{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	for _, id := range followed {
		result[id] = true
	}
	return result, nil
}
