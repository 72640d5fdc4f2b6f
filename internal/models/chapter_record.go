package models

import "time"

// ChapterRecord is the per-chapter row behind a BookRun. One row per outline
// chapter, updated as the workflow moves the chapter through its states.
type ChapterRecord struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookRunID uint `gorm:"not null;index:idx_chapter_run_number,unique" json:"bookRunId"`
	Number    int  `gorm:"not null;index:idx_chapter_run_number,unique" json:"number"`

	Title         string `gorm:"size:500;not null" json:"title"`
	Status        string `gorm:"size:20;not null" json:"status"`
	RevisionCount int    `json:"revisionCount"`
	Forced        bool   `json:"forced"`
	WordCount     int    `json:"wordCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
