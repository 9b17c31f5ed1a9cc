package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devfolio/models"
)

func (a *AdminModule) listMessages(c *gin.Context) {
	query := a.db.Order("created_at DESC")

	// Optional search over sender name, email and subject.
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR subject LIKE ?", like, like, like)
	}

	var messages []models.ContactMessage
	if err := query.Find(&messages).Error; err != nil {
		c.HTML(http.StatusInternalServerError, "admin_error.html", gin.H{
			"error": "Failed to load messages",
		})
		return
	}

	c.HTML(http.StatusOK, "admin_messages.html", gin.H{
		"messages": messages,
		"query":    c.Query("q"),
	})
}

func (a *AdminModule) deleteMessage(c *gin.Context) {
	messageID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	result := a.db.Where("id = ?", messageID).Delete(&models.ContactMessage{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
