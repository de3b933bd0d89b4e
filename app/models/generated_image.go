package models

import "time"

// GeneratedImage records a completed AI generation for a user, including
// what it cost in credits. Credits spent on a generation are consumed even
// if the user discards the result afterwards.
type GeneratedImage struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Prompt         string    `gorm:"type:text;not null" json:"prompt"`
	StyleID        string    `gorm:"type:varchar(50)" json:"style_id"`
	AspectRatio    string    `gorm:"type:varchar(10);default:'1:1'" json:"aspect_ratio"`
	SourceImageURL string    `gorm:"type:varchar(500);default:null" json:"source_image_url,omitempty"`
	// Results come back as base64 data URLs, megabytes for a real image,
	// so this cannot be a bounded varchar.
	ResultURL      string    `gorm:"type:mediumtext" json:"result_url"`
	CreditsSpent   int64     `gorm:"not null;default:0" json:"credits_spent"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
