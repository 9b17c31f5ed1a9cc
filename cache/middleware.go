package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches the public blog-post and project-detail pages. Other
// routes pass through untouched.
func Middleware(maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		kind, key := extractFromPath(c.Request.URL.Path)
		if kind == "" {
			c.Next()
			return
		}

		if cached, found := Read(kind, key, maxAge); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK &&
			c.Writer.Header().Get("Content-Type") == "text/html; charset=utf-8" {
			Write(kind, key, writer.body.String())
		}
	}
}

// extractFromPath recognizes /blog/<slug> and /projects/<id>. Everything else
// is uncached.
func extractFromPath(path string) (kind, key string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] == "" {
		return "", ""
	}
	switch parts[0] {
	case "blog", "projects":
		return parts[0], parts[1]
	}
	return "", ""
}
