package models

import "time"

type AppSettings struct {
	ID              uint      `gorm:"primaryKey" json:"id"` // single-row table (ID=1)
	Version         int       `gorm:"not null;default:1" json:"version"`
	DefaultAudience string    `gorm:"size:120;not null;default:general readers" json:"defaultAudience"`
	DefaultTone     string    `gorm:"size:120;not null;default:professional but conversational" json:"defaultTone"`
	DefaultFormat   string    `gorm:"size:20;not null;default:doc" json:"defaultFormat"`
	Provider        string    `gorm:"size:50" json:"provider"`
	Model           string    `gorm:"size:255" json:"model"`
	OutputDir       string    `gorm:"size:1024" json:"outputDir"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
