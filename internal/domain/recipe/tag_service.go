package recipe

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrTagNotFound = errors.New("tag not found")

// TagService serves recipe tags
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new tag service
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns all tags ordered by name
func (s *TagService) List(ctx context.Context) ([]Tag, error) {
	tags := []Tag{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve tags: %w", err)
	}
	return tags, nil
}

// Get retrieves a tag by ID
func (s *TagService) Get(ctx context.Context, id uint) (*Tag, error) {
	var tag Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to retrieve tag: %w", err)
	}
	return &tag, nil
}
