package model

import "time"

// Video 视频表
type Video struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Owner       string    `gorm:"not null;size:36;index" json:"owner"`
	Title       string    `gorm:"not null;size:255;index" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VideoFile   string    `gorm:"not null;size:512" json:"video_file"`
	Thumbnail   string    `gorm:"not null;size:512" json:"thumbnail"`
	Duration    float64   `gorm:"not null;default:0" json:"duration"`
	Views       int64     `gorm:"not null;default:0;index" json:"views"`
	IsPublic    bool      `gorm:"not null;default:true" json:"is_public"`
	IsNSFW      bool      `gorm:"column:is_nsfw;not null;default:false" json:"is_nsfw"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// Playlist 播放列表. Videos keeps the owner's ordering.
type Playlist struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Owner       string    `gorm:"not null;size:36;index" json:"owner"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Visibility  string    `gorm:"not null;size:16;default:'public'" json:"visibility"`
	Videos      string    `gorm:"type:json" json:"videos"` // []string
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Playlist) TableName() string {
	return "playlists"
}
