package admin

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"devfolio/storage"
)

func multipartUpload(t *testing.T, path, filename string, content []byte, cookies []*http.Cookie) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req, httptest.NewRecorder()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadFile_Apk(t *testing.T) {
	db := setupTestDB()
	baseDir := t.TempDir()
	adminModule := NewAdminModule(db, storage.NewStore(baseDir, "/uploads"), nil)
	router := setupTestRouter(t, adminModule)
	createTestUser(db)
	cookies := login(t, router)

	req, w := multipartUpload(t, "/admin/upload/apks", "app-release.apk", []byte("binary-bytes"), cookies)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/apks/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".apk"))

	// The stored object carries the uploaded bytes verbatim.
	name := filepath.Base(resp.URL)
	data, err := os.ReadFile(filepath.Join(baseDir, "apks", name))
	assert.NoError(t, err)
	assert.Equal(t, []byte("binary-bytes"), data)
}

func TestUploadFile_Screenshot(t *testing.T) {
	db := setupTestDB()
	adminModule := NewAdminModule(db, storage.NewStore(t.TempDir(), "/uploads"), nil)
	router := setupTestRouter(t, adminModule)
	createTestUser(db)
	cookies := login(t, router)

	req, w := multipartUpload(t, "/admin/upload/screenshots", "shot.png", pngBytes(t, 100, 80), cookies)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/screenshots/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".jpg"))
}

func TestUploadFile_UnknownBucket(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(t, newTestModule(t, db))
	createTestUser(db)
	cookies := login(t, router)

	req, w := multipartUpload(t, "/admin/upload/nonsense", "file.txt", []byte("x"), cookies)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown storage bucket")
}

func TestUploadFile_RequiresSession(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(t, newTestModule(t, db))

	req, w := multipartUpload(t, "/admin/upload/apks", "app.apk", []byte("x"), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/admin/login")
}

func TestUploadFile_NoFile(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(t, newTestModule(t, db))
	createTestUser(db)
	cookies := login(t, router)

	req, _ := http.NewRequest("POST", "/admin/upload/apks", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
