package card

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nectorhq/patient-card-service/model"
)

func testPatient() model.PatientCard {
	return model.PatientCard{
		CardNo:      "CARD-1700000000123",
		PatientID:   "P1",
		PatientName: "Jane Doe",
		PhoneNumber: "1234567890",
		Address:     "14/2 Green Park Colony Near City Mall Sector 21 Gurgaon",
		Discount:    10,
		ValidTill:   "2026-03-14",
	}
}

// writeTestTemplate creates a small JPEG to stand in for the card template.
func writeTestTemplate(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 230, B: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "card.jpg")
	f, err := os.Create(path)
	assert.NoError(t, err)
	defer f.Close()
	assert.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

func TestRendererFallbackWhenTemplateMissing(t *testing.T) {
	r, err := NewRenderer(DefaultLayout(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.NoError(t, err)

	img := r.Render(testPatient())
	bounds := img.Bounds()
	assert.Equal(t, 860, bounds.Dx())
	assert.Equal(t, 540, bounds.Dy())
}

func TestRendererFallbackWhenTemplateUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	assert.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	r, err := NewRenderer(DefaultLayout(), path)
	assert.NoError(t, err)

	img := r.Render(testPatient())
	assert.Equal(t, 860, img.Bounds().Dx())
}

func TestRendererWithBackgroundTemplate(t *testing.T) {
	r, err := NewRenderer(DefaultLayout(), writeTestTemplate(t))
	assert.NoError(t, err)

	img := r.Render(testPatient())
	bounds := img.Bounds()
	assert.Equal(t, 860, bounds.Dx())
	assert.Equal(t, 540, bounds.Dy())
}

func TestRenderIsIdempotent(t *testing.T) {
	r, err := NewRenderer(DefaultLayout(), writeTestTemplate(t))
	assert.NoError(t, err)

	patient := testPatient()
	first, err := EncodePNG(r.Render(patient))
	assert.NoError(t, err)
	second, err := EncodePNG(r.Render(patient))
	assert.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "same inputs must produce the same pixels")
}

func TestCompactLayoutDimensions(t *testing.T) {
	r, err := NewRenderer(CompactLayout(), "")
	assert.NoError(t, err)

	img := r.Render(testPatient())
	assert.Equal(t, 516, img.Bounds().Dx())
	assert.Equal(t, 324, img.Bounds().Dy())
}

func TestEncodePNGMagicBytes(t *testing.T) {
	r, err := NewRenderer(DefaultLayout(), "")
	assert.NoError(t, err)

	data, err := EncodePNG(r.Render(testPatient()))
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}
