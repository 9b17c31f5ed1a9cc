package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devfolio/storage"
)

// uploadFile receives one file for the named bucket and answers with the
// public URL. The edit form merges the URL into its draft: screenshots append
// to the list, cover image / resume / APK replace the previous value. On
// failure the draft is untouched and the storage error is surfaced verbatim.
func (a *AdminModule) uploadFile(c *gin.Context) {
	bucket := c.Param("bucket")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if file.Size > storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	url, err := a.storage.Upload(bucket, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
