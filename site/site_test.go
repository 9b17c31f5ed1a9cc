package site

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devfolio/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to test database")
	}
	db.AutoMigrate(&models.Project{}, &models.Post{}, &models.ContactMessage{}, &models.Profile{})
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSiteModule(db, nil, nil).RegisterRoutes(router)
	return router
}

func TestContactPost(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)

	form := url.Values{}
	form.Set("name", "Ada Lovelace")
	form.Set("email", "ada@example.com")
	form.Set("subject", "Collaboration")
	form.Set("message", "I have a project idea.")

	req, _ := http.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/?sent=1", w.Header().Get("Location"))

	var message models.ContactMessage
	assert.NoError(t, db.First(&message).Error)
	assert.Equal(t, "Ada Lovelace", message.Name)
	assert.Equal(t, "ada@example.com", message.Email)
	assert.Equal(t, "Collaboration", message.Subject)
	assert.Equal(t, "I have a project idea.", message.Message)
}

func TestSitemap(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)
	t.Setenv("DOMAIN", "https://example.com/")

	published := models.Project{Title: "Shipped", Description: "d", Published: true}
	draft := models.Project{Title: "WIP", Description: "d", Published: false}
	db.Create(&published)
	db.Create(&draft)
	db.Create(&models.Post{Title: "Hello", Slug: "hello-world", Content: "c", Published: true})
	db.Create(&models.Post{Title: "Draft", Slug: "draft-post", Content: "c", Published: false})

	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	body := w.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://example.com/</loc>")
	assert.Contains(t, body, "<loc>https://example.com/blog</loc>")
	assert.Contains(t, body, "<loc>https://example.com/resume</loc>")
	assert.Contains(t, body, "/projects/"+strconv.Itoa(published.ID))
	assert.Contains(t, body, "<loc>https://example.com/blog/hello-world</loc>")
	assert.NotContains(t, body, "/projects/"+strconv.Itoa(draft.ID)+"<")
	assert.NotContains(t, body, "draft-post")
}

func TestSitemap_DefaultDomain(t *testing.T) {
	db := setupTestDB()
	router := setupTestRouter(db)
	t.Setenv("DOMAIN", "")

	req, _ := http.NewRequest("GET", "/sitemap.xml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<loc>http://localhost:8080/</loc>")
}

func TestRenderMarkdown(t *testing.T) {
	html := renderMarkdown("# Heading\n\nSome **bold** text.")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderMarkdown_GFM(t *testing.T) {
	html := renderMarkdown("~~gone~~ and https://example.com")
	assert.Contains(t, html, "<del>gone</del>")
	assert.Contains(t, html, `<a href="https://example.com"`)
}

func TestRenderMarkdown_RawHTMLPreserved(t *testing.T) {
	// Post content is authored by the site owner, so inline HTML is allowed.
	html := renderMarkdown("before\n\n<figure>inline</figure>\n\nafter")
	assert.Contains(t, html, "<figure>inline</figure>")
}
