package model

import "time"

// User 用户表. Username and Email are stored case-folded.
type User struct {
	ID                  string     `gorm:"primaryKey;size:36" json:"id"`
	Username            string     `gorm:"not null;size:64;uniqueIndex" json:"username"`
	Email               string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Fullname            string     `gorm:"not null;size:128;index" json:"fullname"`
	Avatar              string     `gorm:"size:512" json:"avatar"`
	CoverImage          string     `gorm:"size:512" json:"cover_image"`
	Password            string     `gorm:"not null;size:128" json:"-"`
	RefreshToken        string     `gorm:"size:512" json:"-"`
	ResetPasswordToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	WatchHistory        string     `gorm:"type:json" json:"-"` // []WatchEntry, most recent first
	UploadTermsAccepted bool       `gorm:"not null;default:false" json:"upload_terms_accepted"`
	CreatedAt           time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// WatchEntry is one element of User.WatchHistory.
type WatchEntry struct {
	Video     string    `json:"video"`
	WatchedAt time.Time `json:"watched_at"`
}
