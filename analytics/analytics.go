package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PageView records one visit to a public page.
type PageView struct {
	ID        uint      `gorm:"primary_key;autoIncrement"`
	Path      string    `gorm:"not null;index"`
	CookieID  string    `gorm:"not null;index"`
	IP        string    `gorm:"not null"`
	Browser   *string
	Language  *string
	CreatedAt time.Time `gorm:"index"`
}

type AnalyticsModule struct {
	db *gorm.DB
}

// NewAnalyticsModule migrates the page_views table. A nil db disables
// tracking; all methods are safe on a nil module.
func NewAnalyticsModule(db *gorm.DB) *AnalyticsModule {
	if db == nil {
		log.Println("Analytics DB is nil, analytics will be disabled")
		return nil
	}

	if err := db.AutoMigrate(&PageView{}); err != nil {
		log.Printf("Error migrating page_views table: %v", err)
		return nil
	}

	log.Println("Analytics module initialized successfully")
	return &AnalyticsModule{db: db}
}

// TrackVisit records a visit to path. Repeat visits from the same visitor to
// the same path within 30 minutes are not counted again.
func (a *AnalyticsModule) TrackVisit(c *gin.Context, path string) {
	if a == nil || a.db == nil {
		return
	}

	cookieID := a.getOrCreateCookieID(c)

	thirtyMinutesAgo := time.Now().Add(-30 * time.Minute)
	var recent PageView
	err := a.db.Where("cookie_id = ? AND path = ? AND created_at > ?",
		cookieID, path, thirtyMinutesAgo).First(&recent).Error
	if err == nil {
		return
	}

	event := PageView{
		Path:      path,
		CookieID:  cookieID,
		IP:        a.getClientIP(c),
		Browser:   extractBrowser(c.Request.UserAgent()),
		Language:  extractLanguage(c.GetHeader("Accept-Language")),
		CreatedAt: time.Now(),
	}

	// Write asynchronously so tracking never delays the page response.
	go func() {
		if err := a.db.Create(&event).Error; err != nil {
			log.Printf("Error saving analytics event: %v", err)
		}
	}()
}

func (a *AnalyticsModule) getOrCreateCookieID(c *gin.Context) string {
	const cookieName = "devfolio_visitor_id"

	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	data := time.Now().String() + c.ClientIP() + c.Request.UserAgent()
	hash := sha256.Sum256([]byte(data))
	cookieID := hex.EncodeToString(hash[:])

	c.SetCookie(cookieName, cookieID, 60*60*24*365*2, "/", "", false, true)
	return cookieID
}

func (a *AnalyticsModule) getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func extractBrowser(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := strings.ToLower(userAgent)
	var browser string

	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		browser = "Opera"
	default:
		browser = "Other"
	}

	return &browser
}

func extractLanguage(acceptLang string) *string {
	if acceptLang == "" {
		return nil
	}
	parts := strings.Split(acceptLang, ",")
	lang := strings.Split(strings.TrimSpace(parts[0]), ";")[0]
	if lang == "" {
		return nil
	}
	return &lang
}

// DayVisits is the number of visits on one day.
type DayVisits struct {
	Date  string
	Count int64
}

// PageVisits is the number of visits to one page path.
type PageVisits struct {
	Path  string
	Count int64
}

// GetVisitsByDay returns visit counts for each of the last N days, zero-filled
// for days without traffic.
func (a *AnalyticsModule) GetVisitsByDay(days int) []DayVisits {
	if a == nil || a.db == nil {
		return []DayVisits{}
	}

	startDate := time.Now().AddDate(0, 0, -days)

	var results []struct {
		Date  string
		Count int64
	}
	a.db.Model(&PageView{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", startDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results)

	dayVisits := make([]DayVisits, days)
	for i := 0; i < days; i++ {
		date := time.Now().AddDate(0, 0, -(days - 1 - i))
		dayVisits[i] = DayVisits{Date: date.Format("2006-01-02")}
	}
	for _, result := range results {
		for i := range dayVisits {
			if dayVisits[i].Date == result.Date {
				dayVisits[i].Count = result.Count
				break
			}
		}
	}

	return dayVisits
}

// GetTopPages returns the most visited page paths of the last N days.
func (a *AnalyticsModule) GetTopPages(days int, limit int) []PageVisits {
	if a == nil || a.db == nil {
		return []PageVisits{}
	}

	startDate := time.Now().AddDate(0, 0, -days)

	var results []PageVisits
	a.db.Model(&PageView{}).
		Select("path as path, COUNT(*) as count").
		Where("created_at >= ?", startDate).
		Group("path").
		Order("count DESC").
		Limit(limit).
		Scan(&results)

	return results
}
