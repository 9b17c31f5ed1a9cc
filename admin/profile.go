package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"devfolio/models"
)

func (a *AdminModule) profilePage(c *gin.Context) {
	var profile models.Profile
	err := a.db.First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Failed to load profile",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_profile.html", gin.H{
		"profile": profile,
	})
}

// saveProfile upserts the single profile row: the first save inserts it, every
// later save updates it by id. The redirect back to the profile page refetches
// the row, so a fresh insert's id is known for subsequent saves.
func (a *AdminModule) saveProfile(c *gin.Context) {
	resumeURL := c.PostForm("resume_url")
	bio := c.PostForm("bio")
	email := c.PostForm("email")

	var profile models.Profile
	err := a.db.First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{
			ResumeURL: resumeURL,
			Bio:       bio,
			Email:     email,
		}
		err = a.db.Create(&profile).Error
	case err == nil:
		profile.ResumeURL = resumeURL
		profile.Bio = bio
		profile.Email = email
		err = a.db.Save(&profile).Error
	}

	if err != nil {
		c.HTML(http.StatusInternalServerError, "admin_profile.html", gin.H{
			"error":   err.Error(),
			"profile": profile,
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/profile")
}
