package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestUpload_RawBucket(t *testing.T) {
	baseDir := t.TempDir()
	store := NewStore(baseDir, "/uploads")

	url, err := store.Upload(BucketApks, "app-release.apk", strings.NewReader("apk-bytes"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/apks/"))
	assert.True(t, strings.HasSuffix(url, ".apk"))

	data, err := os.ReadFile(filepath.Join(baseDir, BucketApks, filepath.Base(url)))
	assert.NoError(t, err)
	assert.Equal(t, []byte("apk-bytes"), data)
}

func TestUpload_ProfilePrefix(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads")

	url, err := store.Upload(BucketProfile, "cv.pdf", strings.NewReader("%PDF-1.4"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(url), "resume_"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
}

func TestUpload_UnknownBucket(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads")

	_, err := store.Upload("documents", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestUpload_ImageReencodedAsJpeg(t *testing.T) {
	baseDir := t.TempDir()
	store := NewStore(baseDir, "/uploads")

	url, err := store.Upload(BucketScreenshots, "shot.png", testPNG(t, 120, 90))
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(baseDir, BucketScreenshots, filepath.Base(url)))
	assert.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestUpload_LargeImageDownscaled(t *testing.T) {
	baseDir := t.TempDir()
	store := NewStore(baseDir, "/uploads")

	url, err := store.Upload(BucketBlogImages, "hero.png", testPNG(t, 2000, 1000))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(url), "blog_"))

	data, err := os.ReadFile(filepath.Join(baseDir, BucketBlogImages, filepath.Base(url)))
	assert.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestUpload_ImageBucketRejectsGarbage(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads")

	_, err := store.Upload(BucketScreenshots, "notes.txt", strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	store := NewStore("/data/uploads", "/uploads/")
	assert.Equal(t, "/uploads/apks/123.apk", store.PublicURL(BucketApks, "123.apk"))
}
