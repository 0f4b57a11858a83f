package model

import "time"

// Comment 评论表. ParentComment is nil for top-level comments.
type Comment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Owner         string    `gorm:"not null;size:36;index" json:"owner"`
	Video         string    `gorm:"not null;size:36;index:idx_video_parent" json:"video"`
	ParentComment *string   `gorm:"size:36;index:idx_video_parent;index" json:"parent_comment"`
	Content       string    `gorm:"not null;size:1024" json:"content"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// Reaction 点赞/点踩. Exactly one of Video, Comment, Tweet is set and Target
// repeats it as "<kind>:<key>" so (Actor, Target) can carry a unique index.
type Reaction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Actor     string    `gorm:"not null;size:36;uniqueIndex:idx_actor_target,priority:1" json:"actor"`
	Target    string    `gorm:"not null;size:48;uniqueIndex:idx_actor_target,priority:2" json:"target"`
	Kind      string    `gorm:"not null;size:16" json:"kind"`
	Video     *string   `gorm:"size:36;index" json:"video,omitempty"`
	Comment   *string   `gorm:"size:36;index" json:"comment,omitempty"`
	Tweet     *string   `gorm:"size:36;index" json:"tweet,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

type Tweet struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Owner     string    `gorm:"not null;size:36;index" json:"owner"`
	Content   string    `gorm:"not null;size:512" json:"content"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Tweet) TableName() string {
	return "tweets"
}
