package service

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"testing"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory ObjectStore for tests.
type memoryStore struct {
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) PutObject(_ context.Context, objectKey string, data []byte, _ string) error {
	m.objects[objectKey] = data
	return nil
}

func (m *memoryStore) DeleteObject(objectKey string) error {
	delete(m.objects, objectKey)
	return nil
}

func (m *memoryStore) GetPublicURL(objectKey string) string {
	return "http://store.local/" + objectKey
}

func TestNewCodeSlug_ShortAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		slug := NewCodeSlug()
		assert.Len(t, slug, 10)
		assert.False(t, seen[slug], "slug %q generated twice", slug)
		seen[slug] = true
	}
}

func TestScanURL_JoinsBaseAndSlug(t *testing.T) {
	s := NewQRService(newMemoryStore(), "https://go.ulasis.id/")
	assert.Equal(t, "https://go.ulasis.id/q/abc123", s.ScanURL("abc123"))
}

func TestRender_StoresPNGUnderQuestionnaireKey(t *testing.T) {
	store := newMemoryStore()
	s := NewQRService(store, "https://go.ulasis.id")

	code := &domain.QRCode{
		QuestionnaireID: uuid.New(),
		Code:            "abc123defg",
		ForegroundColor: "#000000",
		BackgroundColor: "#ffffff",
		Size:            256,
		ErrorCorrection: domain.ECLevelMedium,
	}

	key, err := s.Render(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("qr/%s/abc123defg.png", code.QuestionnaireID), key)

	data, ok := store.objects[key]
	require.True(t, ok)
	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRender_RejectsInvalidColors(t *testing.T) {
	s := NewQRService(newMemoryStore(), "https://go.ulasis.id")

	code := &domain.QRCode{
		QuestionnaireID: uuid.New(),
		Code:            "abc123defg",
		ForegroundColor: "black",
		BackgroundColor: "#ffffff",
		Size:            256,
		ErrorCorrection: domain.ECLevelMedium,
	}

	_, err := s.Render(context.Background(), code)
	assert.Error(t, err)
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#000000"))
	assert.True(t, ValidateHexColor("#FF8800"))
	assert.True(t, ValidateHexColor("#a1b2c3"))

	assert.False(t, ValidateHexColor("000000"))
	assert.False(t, ValidateHexColor("#000"))
	assert.False(t, ValidateHexColor("#gggggg"))
	assert.False(t, ValidateHexColor("#00000000"))
	assert.False(t, ValidateHexColor(""))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF8800")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x88, B: 0x00, A: 0xff}, c)

	_, err = ParseHexColor("red")
	assert.Error(t, err)
}

func TestValidQRSize_Bounds(t *testing.T) {
	assert.True(t, ValidQRSize(128))
	assert.True(t, ValidQRSize(512))
	assert.True(t, ValidQRSize(1024))

	assert.False(t, ValidQRSize(127))
	assert.False(t, ValidQRSize(1025))
	assert.False(t, ValidQRSize(0))
	assert.False(t, ValidQRSize(-512))
}

func TestValidErrorCorrection(t *testing.T) {
	assert.True(t, ValidErrorCorrection(domain.ECLevelLow))
	assert.True(t, ValidErrorCorrection(domain.ECLevelMedium))
	assert.True(t, ValidErrorCorrection(domain.ECLevelQuality))
	assert.True(t, ValidErrorCorrection(domain.ECLevelHigh))

	assert.False(t, ValidErrorCorrection(domain.ErrorCorrectionLevel("X")))
	assert.False(t, ValidErrorCorrection(domain.ErrorCorrectionLevel("")))
}
