package admin

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devfolio/analytics"
	"devfolio/models"
	"devfolio/storage"
)

type AdminModule struct {
	db        *gorm.DB
	storage   *storage.Store
	analytics *analytics.AnalyticsModule
}

func NewAdminModule(db *gorm.DB, store *storage.Store, analyticsModule *analytics.AnalyticsModule) *AdminModule {
	return &AdminModule{
		db:        db,
		storage:   store,
		analytics: analyticsModule,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/admin", a.adminRoot)
	router.GET("/admin/login", a.loginPage)
	router.POST("/admin/login", a.loginPost)
	router.GET("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/dashboard", a.dashboard)

		adminGroup.GET("/projects", a.listProjects)
		adminGroup.GET("/projects/new", a.newProject)
		adminGroup.POST("/projects", a.saveProject)
		adminGroup.GET("/projects/:id/edit", a.editProject)
		adminGroup.POST("/projects/:id", a.updateProject)
		adminGroup.DELETE("/projects/:id", a.deleteProject)

		adminGroup.GET("/blog", a.listPosts)
		adminGroup.GET("/blog/new", a.newPost)
		adminGroup.POST("/blog", a.savePost)
		adminGroup.GET("/blog/:id/edit", a.editPost)
		adminGroup.POST("/blog/:id", a.updatePost)
		adminGroup.DELETE("/blog/:id", a.deletePost)

		adminGroup.GET("/messages", a.listMessages)
		adminGroup.DELETE("/messages/:id", a.deleteMessage)

		adminGroup.GET("/profile", a.profilePage)
		adminGroup.POST("/profile", a.saveProfile)

		adminGroup.POST("/upload/:bucket", a.uploadFile)
	}
}

// requireAuth runs on every admin route. Session validity is checked per
// request, never cached across navigations.
func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID == nil {
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
		return
	}

	c.Set("user_id", userID)
	c.Next()
}

func (a *AdminModule) adminRoot(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.Redirect(http.StatusFound, "/admin/login")
}

// loginPage is exempt from the guard; with a live session it redirects forward
// to the dashboard instead.
func (a *AdminModule) loginPage(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (a *AdminModule) loginPost(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Invalid email or password",
			"email": email,
		})
		return
	}

	if !checkPasswordHash(password, user.PasswordHash) {
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"error": "Invalid email or password",
			"email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/admin/login")
}

func (a *AdminModule) dashboard(c *gin.Context) {
	var projects []models.Project
	if err := a.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Failed to load projects",
		})
		return
	}

	var messageCount int64
	a.db.Model(&models.ContactMessage{}).Count(&messageCount)

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"projects":     projects,
		"messageCount": messageCount,
		"visitsByDay":  a.analytics.GetVisitsByDay(15),
		"topPages":     a.analytics.GetTopPages(30, 10),
	})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
