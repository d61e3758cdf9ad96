// internal/infrastructure/storage/local.go
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
)

const recipesDir = "recipes"

// Rejections of the submitted image wrap recipe.ErrBadImage
var (
	ErrInvalidImage  = fmt.Errorf("%w: expected a base64 data URL (data:image/<type>;base64,...)", recipe.ErrBadImage)
	ErrImageTooLarge = fmt.Errorf("%w: image is too large", recipe.ErrBadImage)
	ErrUnsupported   = fmt.Errorf("%w: unsupported image type", recipe.ErrBadImage)
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
}

// LocalStore keeps recipe images on local disk under LocalPath and serves them from BaseURL
type LocalStore struct {
	config config.StorageConfig
	logger logrus.FieldLogger
}

// NewLocalStore creates the storage directories and returns a store rooted at cfg.LocalPath
func NewLocalStore(cfg config.StorageConfig, logger logrus.FieldLogger) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.LocalPath, recipesDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &LocalStore{
		config: cfg,
		logger: logger.WithField("component", "storage"),
	}, nil
}

// Save decodes a data URL, downsizes the image to the configured bounds,
// writes it and returns its relative name ("recipes/<uuid>.<ext>").
func (s *LocalStore) Save(ctx context.Context, dataURL string) (string, error) {
	mimeType, payload, err := parseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext, ok := extensions[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mimeType)
	}

	if int64(base64.StdEncoding.DecodedLen(len(payload))) > s.config.MaxImageBytes {
		return "", ErrImageTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds := img.Bounds()
	if bounds.Dx() > s.config.ImageMaxWidth || bounds.Dy() > s.config.ImageMaxHeight {
		img = imaging.Fit(img, s.config.ImageMaxWidth, s.config.ImageMaxHeight, imaging.Lanczos)
	}

	filename := uuid.New().String() + ext
	name := path.Join(recipesDir, filename)

	if err := imaging.Save(img, s.fullPath(name)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"image":  name,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("image stored")

	return name, nil
}

// Delete removes an image. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}

	if err := os.Remove(s.fullPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// URL returns the public URL of a stored image
func (s *LocalStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimRight(s.config.BaseURL, "/") + "/" + name
}

func (s *LocalStore) fullPath(name string) string {
	return filepath.Join(s.config.LocalPath, filepath.FromSlash(name))
}

// parseDataURL splits "data:<mime>;base64,<payload>"
func parseDataURL(dataURL string) (string, string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(dataURL), "data:")
	if !ok {
		return "", "", ErrInvalidImage
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return "", "", ErrInvalidImage
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", "", ErrInvalidImage
	}

	return strings.ToLower(mimeType), payload, nil
}
