package models

import "time"

// Run lifecycle values stored on BookRun.Status.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// BookRun records one end-to-end generation run: the request that started
// it, where it ended up, and enough workflow counters to explain the result.
type BookRun struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Key string `gorm:"size:36;not null;uniqueIndex" json:"key"`

	Topic        string `gorm:"size:500;not null" json:"topic"`
	Audience     string `gorm:"size:120" json:"audience"`
	Tone         string `gorm:"size:120" json:"tone"`
	Format       string `gorm:"size:20" json:"format"`
	Requirements string `gorm:"type:text" json:"requirements,omitempty"`
	Provider     string `gorm:"size:50" json:"provider"`
	Model        string `gorm:"size:255" json:"model"`

	Status       string `gorm:"size:20;not null;index" json:"status"`
	Title        string `gorm:"size:500" json:"title"`
	OutputPath   string `gorm:"size:1024" json:"outputPath,omitempty"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`

	OutlineRevisions int  `json:"outlineRevisions"`
	ForcedOutline    bool `json:"forcedOutline"`

	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Chapters []ChapterRecord `gorm:"foreignKey:BookRunID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}
