package site

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"devfolio/analytics"
	emailpkg "devfolio/email"
	"devfolio/models"
)

type SiteModule struct {
	db        *gorm.DB
	analytics *analytics.AnalyticsModule
	email     *emailpkg.EmailService
}

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

func NewSiteModule(db *gorm.DB, analyticsModule *analytics.AnalyticsModule, emailService *emailpkg.EmailService) *SiteModule {
	return &SiteModule{
		db:        db,
		analytics: analyticsModule,
		email:     emailService,
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.index)
	router.GET("/projects/:id", s.project)
	router.GET("/blog", s.blogIndex)
	router.GET("/blog/:slug", s.blogPost)
	router.GET("/resume", s.resume)
	router.POST("/contact", s.contactPost)
	router.GET("/sitemap.xml", s.sitemap)
}

func (s *SiteModule) getProfile() models.Profile {
	var profile models.Profile
	s.db.First(&profile)
	return profile
}

// index renders the portfolio home: hero/about from the profile, published
// projects, and the three latest published posts. A failed list fetch degrades
// to an empty section, never an error page.
func (s *SiteModule) index(c *gin.Context) {
	var projects []models.Project
	if err := s.db.Where("published = ?", true).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Printf("Error loading projects for home page: %v", err)
	}

	var posts []models.Post
	if err := s.db.Where("published = ?", true).
		Order("created_at DESC").
		Limit(3).
		Find(&posts).Error; err != nil {
		log.Printf("Error loading posts for home page: %v", err)
	}

	s.analytics.TrackVisit(c, "/")

	c.HTML(http.StatusOK, "site_index.html", gin.H{
		"profile":  s.getProfile(),
		"projects": projects,
		"posts":    posts,
		"sent":     c.Query("sent") == "1",
	})
}

func (s *SiteModule) project(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := s.db.Where("id = ? AND published = ?", projectID, true).
		First(&project).Error; err != nil {
		c.HTML(http.StatusNotFound, "site_error.html", gin.H{
			"error": "Project not found",
		})
		return
	}

	s.analytics.TrackVisit(c, "/projects/"+projectID)

	c.HTML(http.StatusOK, "site_project.html", gin.H{
		"project":         project,
		"descriptionHTML": template.HTML(renderMarkdown(project.Description)),
	})
}

func (s *SiteModule) blogIndex(c *gin.Context) {
	var posts []models.Post
	if err := s.db.Where("published = ?", true).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		log.Printf("Error loading blog index: %v", err)
	}

	s.analytics.TrackVisit(c, "/blog")

	c.HTML(http.StatusOK, "site_blog_index.html", gin.H{
		"posts": posts,
	})
}

func (s *SiteModule) blogPost(c *gin.Context) {
	slug := c.Param("slug")

	var post models.Post
	if err := s.db.Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		c.HTML(http.StatusNotFound, "site_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	s.analytics.TrackVisit(c, "/blog/"+slug)

	c.HTML(http.StatusOK, "site_blog_post.html", gin.H{
		"post":        post,
		"contentHTML": template.HTML(renderMarkdown(post.Content)),
	})
}

func (s *SiteModule) resume(c *gin.Context) {
	s.analytics.TrackVisit(c, "/resume")

	c.HTML(http.StatusOK, "site_resume.html", gin.H{
		"profile": s.getProfile(),
	})
}

// contactPost is the only unauthenticated write path: it stores one contact
// message and sends a best-effort notification to the site owner.
func (s *SiteModule) contactPost(c *gin.Context) {
	message := models.ContactMessage{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Subject: c.PostForm("subject"),
		Message: c.PostForm("message"),
	}

	if err := s.db.Create(&message).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "site_error.html", gin.H{
			"error": "Failed to send message",
		})
		return
	}

	if s.email != nil && s.email.Configured() {
		if owner := s.getProfile().Email; owner != "" {
			if err := s.email.SendContactNotification(owner, message); err != nil {
				log.Printf("Error sending contact notification: %v", err)
			}
		}
	}

	c.Redirect(http.StatusFound, "/?sent=1")
}

func (s *SiteModule) sitemap(c *gin.Context) {
	domain := os.Getenv("DOMAIN")
	if domain == "" {
		domain = "http://localhost:8080"
	}
	domain = strings.TrimSuffix(domain, "/")

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	writeURL := func(loc, changefreq, priority, lastmod string) {
		sitemap.WriteString("  <url>\n")
		sitemap.WriteString("    <loc>" + loc + "</loc>\n")
		if lastmod != "" {
			sitemap.WriteString("    <lastmod>" + lastmod + "</lastmod>\n")
		}
		sitemap.WriteString("    <changefreq>" + changefreq + "</changefreq>\n")
		sitemap.WriteString("    <priority>" + priority + "</priority>\n")
		sitemap.WriteString("  </url>\n")
	}

	writeURL(domain+"/", "weekly", "1.0", "")
	writeURL(domain+"/blog", "daily", "0.8", "")
	writeURL(domain+"/resume", "monthly", "0.5", "")

	var projects []models.Project
	s.db.Where("published = ?", true).Find(&projects)
	for _, project := range projects {
		writeURL(domain+"/projects/"+strconv.Itoa(project.ID), "monthly", "0.7",
			project.UpdatedAt.Format(time.RFC3339))
	}

	var posts []models.Post
	s.db.Where("published = ?", true).Find(&posts)
	for _, post := range posts {
		writeURL(domain+"/blog/"+post.Slug, "monthly", "0.6",
			post.UpdatedAt.Format(time.RFC3339))
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// Fall back to the raw content rather than breaking the page.
		return content
	}
	return buf.String()
}
