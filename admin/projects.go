package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"devfolio/cache"
	"devfolio/models"
)

// projectForm carries one submitted project draft. The tech-stack field stays
// a comma-joined string until submit time, when it is split exactly once.
type projectForm struct {
	Title       string
	Description string
	TechStack   string
	LiveURL     string
	GithubURL   string
	ApkURL      string
	Screenshots []string
	Published   bool
}

func parseProjectForm(c *gin.Context) projectForm {
	return projectForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		TechStack:   c.PostForm("tech_stack"),
		LiveURL:     c.PostForm("live_url"),
		GithubURL:   c.PostForm("github_url"),
		ApkURL:      c.PostForm("apk_url"),
		Screenshots: c.PostFormArray("screenshots"),
		Published:   c.PostForm("published") == "on",
	}
}

func (f projectForm) apply(p *models.Project) {
	p.Title = f.Title
	p.Description = f.Description
	p.TechStack = splitTags(f.TechStack)
	p.LiveURL = nilIfEmpty(f.LiveURL)
	p.GithubURL = nilIfEmpty(f.GithubURL)
	p.ApkURL = nilIfEmpty(f.ApkURL)
	p.Screenshots = f.Screenshots
	p.Published = f.Published
}

// splitTags splits a comma-joined tag string into trimmed, non-empty tokens.
func splitTags(tags string) models.StringList {
	var out models.StringList
	for _, tag := range strings.Split(tags, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// nilIfEmpty maps an absent optional URL to NULL, never an empty string.
func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (a *AdminModule) listProjects(c *gin.Context) {
	var projects []models.Project
	if err := a.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Failed to load projects",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_list_projects.html", gin.H{
		"projects": projects,
	})
}

func (a *AdminModule) newProject(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_project_form.html", gin.H{})
}

func (a *AdminModule) saveProject(c *gin.Context) {
	form := parseProjectForm(c)

	var project models.Project
	form.apply(&project)

	if err := a.db.Create(&project).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_project_form.html", gin.H{
			"error": err.Error(),
			"form":  form,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/projects")
}

func (a *AdminModule) editProject(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := a.db.First(&project, projectID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Project not found",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_project_form.html", gin.H{
		"project":   project,
		"techStack": strings.Join(project.TechStack, ", "),
	})
}

func (a *AdminModule) updateProject(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := a.db.First(&project, projectID).Error; err != nil {
		c.HTML(http.StatusNotFound, "admin_error.html", gin.H{
			"error": "Project not found",
		})
		return
	}

	form := parseProjectForm(c)
	form.apply(&project)

	if err := a.db.Save(&project).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_project_form.html", gin.H{
			"error":   err.Error(),
			"project": project,
			"form":    form,
		})
		return
	}

	cache.Clear("projects", strconv.Itoa(project.ID))

	c.Redirect(http.StatusFound, "/admin/projects")
}

func (a *AdminModule) deleteProject(c *gin.Context) {
	projectID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	result := a.db.Where("id = ?", projectID).Delete(&models.Project{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	cache.Clear("projects", strconv.Itoa(projectID))

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}
