package admin

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"devfolio/cache"
	"devfolio/models"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
	slugTrimRe     = regexp.MustCompile(`^-+|-+$`)
)

// normalizeSlug maps arbitrary text to a URL-safe identifier: lowercase, word
// characters and hyphens only, runs of spaces/underscores/hyphens collapsed to
// a single hyphen, no leading or trailing hyphens. Idempotent.
func normalizeSlug(s string) string {
	s = slugStripRe.ReplaceAllString(strings.ToLower(s), "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return slugTrimRe.ReplaceAllString(s, "")
}

type postForm struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Published  bool
}

func parsePostForm(c *gin.Context) postForm {
	return postForm{
		Title:      c.PostForm("title"),
		Slug:       normalizeSlug(c.PostForm("slug")),
		Excerpt:    c.PostForm("excerpt"),
		Content:    c.PostForm("content"),
		CoverImage: c.PostForm("cover_image"),
		Published:  c.PostForm("published") == "on",
	}
}

func (a *AdminModule) listPosts(c *gin.Context) {
	var posts []models.Post
	if err := a.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Failed to load posts",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_list_posts.html", gin.H{
		"posts": posts,
	})
}

func (a *AdminModule) newPost(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_post_form.html", gin.H{})
}

func (a *AdminModule) savePost(c *gin.Context) {
	form := parsePostForm(c)

	// On create an empty slug derives from the title.
	slug := form.Slug
	if slug == "" {
		slug = normalizeSlug(form.Title)
	}

	post := models.Post{
		Title:      form.Title,
		Slug:       slug,
		Excerpt:    form.Excerpt,
		Content:    form.Content,
		CoverImage: nilIfEmpty(form.CoverImage),
		Published:  form.Published,
	}

	if err := a.db.Create(&post).Error; err != nil {
		// Surfaces unique-slug violations among other write failures.
		c.HTML(http.StatusInternalServerError, "admin_post_form.html", gin.H{
			"error": err.Error(),
			"form":  form,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/blog")
}

func (a *AdminModule) editPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := a.db.First(&post, postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_post_form.html", gin.H{
		"post": post,
	})
}

func (a *AdminModule) updatePost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := a.db.First(&post, postID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Post not found",
		})
		return
	}

	form := parsePostForm(c)
	oldSlug := post.Slug

	post.Title = form.Title
	// Editing a title never changes the stored slug; only an edited slug
	// field does.
	if form.Slug != "" {
		post.Slug = form.Slug
	}
	post.Excerpt = form.Excerpt
	post.Content = form.Content
	post.CoverImage = nilIfEmpty(form.CoverImage)
	post.Published = form.Published

	if err := a.db.Save(&post).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_post_form.html", gin.H{
			"error": err.Error(),
			"post":  post,
			"form":  form,
		})
		return
	}

	cache.Clear("blog", oldSlug)
	if post.Slug != oldSlug {
		cache.Clear("blog", post.Slug)
	}

	c.Redirect(http.StatusFound, "/admin/blog")
}

func (a *AdminModule) deletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var post models.Post
	if err := a.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if err := a.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	cache.Clear("blog", post.Slug)

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
