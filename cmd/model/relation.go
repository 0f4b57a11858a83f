package model

import "time"

// Subscription 订阅关系. Subscriber follows Channel; both are user keys.
type Subscription struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Subscriber string    `gorm:"not null;size:36;uniqueIndex:idx_subscriber_channel,priority:1" json:"subscriber"`
	Channel    string    `gorm:"not null;size:36;uniqueIndex:idx_subscriber_channel,priority:2;index" json:"channel"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
