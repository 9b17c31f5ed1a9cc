package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores an ordered list of strings as a JSON-encoded TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
}

type Project struct {
	ID          int        `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TechStack   StringList `gorm:"type:text" json:"tech_stack"`
	LiveURL     *string    `json:"live_url"` // nil when absent, never ""
	GithubURL   *string    `json:"github_url"`
	ApkURL      *string    `json:"apk_url"`
	Screenshots StringList `gorm:"type:text" json:"screenshots"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Post struct {
	ID         int       `gorm:"primary_key;autoIncrement" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"unique;not null;index" json:"slug"`
	Excerpt    string    `gorm:"type:text" json:"excerpt"`
	Content    string    `gorm:"type:text" json:"content"`
	CoverImage *string   `json:"cover_image"`
	Published  bool      `gorm:"default:false;index" json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ContactMessage is created by the public contact form and is read-only from
// the admin side except for deletion.
type ContactMessage struct {
	ID        int       `gorm:"primary_key;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the single resume/bio row. At most one row exists; the admin
// profile handler inserts the first row and updates it afterwards.
type Profile struct {
	ID        int       `gorm:"primary_key;autoIncrement" json:"id"`
	ResumeURL string    `json:"resume_url"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}
