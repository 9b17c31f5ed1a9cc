package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"devfolio/admin"
	"devfolio/analytics"
	"devfolio/cache"
	"devfolio/common"
	"devfolio/database"
	"devfolio/email"
	"devfolio/site"
	"devfolio/storage"
)

func main() {
	common.LoadEnv()

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := database.SeedAdminUser(db); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	analyticsModule := analytics.NewAnalyticsModule(common.ConnectAnalyticsDb())

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("devfolio-session", store))
	router.Use(cache.Middleware(5 * time.Minute))

	router.SetFuncMap(map[string]interface{}{
		"now": func() time.Time {
			return time.Now()
		},
		"domain": func() string {
			d := os.Getenv("DOMAIN")
			if d == "" {
				return "http://localhost:8080"
			}
			return d
		},
	})

	router.LoadHTMLGlob("*/views/*.html")

	router.Static("/public", "./public")

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	uploadsURL := os.Getenv("UPLOADS_URL")
	if uploadsURL == "" {
		uploadsURL = "/uploads"
	}
	objectStore := storage.NewStore(uploadsDir, uploadsURL)
	router.Static("/uploads", uploadsDir)

	adminModule := admin.NewAdminModule(db, objectStore, analyticsModule)
	adminModule.RegisterRoutes(router)

	siteModule := site.NewSiteModule(db, analyticsModule, email.NewEmailService())
	siteModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
