package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/domain/user"
	"github.com/your-org/foodgram-backend/internal/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrSelfSubscription  = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	ErrNotSubscribed     = errors.New("not subscribed to this author")
)

// AuthorCard is a followed author with a preview of their recipes
type AuthorCard struct {
	user.Profile
	Recipes      []recipe.ShortRecipe `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}

// ListResponse represents a page of followed authors
type ListResponse struct {
	Authors    []AuthorCard          `json:"results"`
	Pagination pagination.Pagination `json:"pagination"`
}

// Service handles subscription business logic
type Service struct {
	db      *gorm.DB
	config  *config.Config
	users   *user.Service
	recipes *recipe.Service
	logger  logrus.FieldLogger
}

// NewService creates a new subscription service
func NewService(db *gorm.DB, cfg *config.Config, users *user.Service, recipes *recipe.Service, logger logrus.FieldLogger) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		users:   users,
		recipes: recipes,
		logger:  logger.WithField("service", "subscription"),
	}
}

// Subscribe makes userID follow authorID. recipesLimit <= 0 returns every recipe in the card.
func (s *Service) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorCard, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&user.Subscription{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	sub := user.Subscription{UserID: userID, AuthorID: authorID}
	if err := db.Omit("User", "Author").Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "author_id": authorID}).Info("subscribed to author")

	cards, err := s.cards(ctx, []user.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// Unsubscribe removes the follow relation
func (s *Service) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&user.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotSubscribed
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "author_id": authorID}).Info("unsubscribed from author")
	return nil
}

// List returns the authors userID follows, ordered by username
func (s *Service) List(ctx context.Context, userID uint, params pagination.Params, recipesLimit int) (*ListResponse, error) {
	params = params.Normalize(s.config.Pagination.DefaultLimit, s.config.Pagination.MaxLimit)
	db := s.db.WithContext(ctx)

	followed := db.Model(&user.Subscription{}).Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := db.Model(&user.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []user.User
	if err := db.Where("id IN (?)", followed).
		Order("username ASC").
		Offset(params.Offset()).Limit(params.Limit).
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve subscriptions: %w", err)
	}

	cards, err := s.cards(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Authors:    cards,
		Pagination: pagination.New(params, total),
	}, nil
}

// cards builds author cards for authors the viewer follows
func (s *Service) cards(ctx context.Context, authors []user.User, recipesLimit int) ([]AuthorCard, error) {
	db := s.db.WithContext(ctx)

	ids := make([]uint, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	type authorCount struct {
		AuthorID uint
		Count    int64
	}
	var counts []authorCount
	if len(ids) > 0 {
		if err := db.Model(&recipe.Recipe{}).
			Select("author_id, COUNT(*) AS count").
			Where("author_id IN ?", ids).
			Group("author_id").
			Scan(&counts).Error; err != nil {
			return nil, fmt.Errorf("failed to count author recipes: %w", err)
		}
	}
	countByAuthor := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByAuthor[c.AuthorID] = c.Count
	}

	cards := make([]AuthorCard, len(authors))
	for i := range authors {
		query := db.Where("author_id = ?", authors[i].ID).Order("pub_date DESC, id DESC")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}

		var recipes []recipe.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to retrieve author recipes: %w", err)
		}

		shorts := make([]recipe.ShortRecipe, len(recipes))
		for j := range recipes {
			shorts[j] = s.recipes.ToShort(&recipes[j])
		}

		cards[i] = AuthorCard{
			Profile:      user.NewProfile(&authors[i], true),
			Recipes:      shorts,
			RecipesCount: countByAuthor[authors[i].ID],
		}
	}
	return cards, nil
}
