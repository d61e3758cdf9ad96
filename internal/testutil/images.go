package testutil

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
)

// PNGDataURL returns a base64 data URL of a solid w x h PNG
func PNGDataURL(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// MemoryImages is an in-memory image store. A non-nil SaveErr fails every Save.
type MemoryImages struct {
	mu      sync.Mutex
	Stored  map[string]bool
	Deleted []string
	SaveErr error
}

// NewMemoryImages creates an empty in-memory image store
func NewMemoryImages() *MemoryImages {
	return &MemoryImages{Stored: map[string]bool{}}
}

func (m *MemoryImages) Save(ctx context.Context, dataURL string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", errInvalidImage
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	name := "recipes/" + uuid.NewString() + ".png"
	m.Stored[name] = true
	return name, nil
}

func (m *MemoryImages) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Stored, name)
	m.Deleted = append(m.Deleted, name)
	return nil
}

func (m *MemoryImages) URL(name string) string {
	return "/media/" + name
}

var errInvalidImage = fmt.Errorf("%w: not a data URL", recipe.ErrBadImage)
