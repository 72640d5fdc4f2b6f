package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bookforge/internal/models"
)

type BookRunRepository interface {
	Create(run *models.BookRun) error
	Update(run *models.BookRun) error
	GetByKey(key string) (*models.BookRun, error)
	ListRecent(limit int) ([]models.BookRun, error)
	UpsertChapter(record *models.ChapterRecord) error
}

type bookRunRepository struct {
	db *gorm.DB
}

func NewBookRunRepository(db *gorm.DB) BookRunRepository {
	return &bookRunRepository{db: db}
}

func (r *bookRunRepository) Create(run *models.BookRun) error {
	if run.Key == "" {
		return fmt.Errorf("run key is required")
	}
	if run.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	return r.db.Create(run).Error
}

func (r *bookRunRepository) Update(run *models.BookRun) error {
	if run.ID == 0 {
		return fmt.Errorf("run ID is required")
	}
	return r.db.Omit("Chapters").Save(run).Error
}

func (r *bookRunRepository) GetByKey(key string) (*models.BookRun, error) {
	if key == "" {
		return nil, fmt.Errorf("run key is required")
	}
	var run models.BookRun
	res := r.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("number")
	}).Where("key = ?", key).Take(&run)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &run, nil
}

func (r *bookRunRepository) ListRecent(limit int) ([]models.BookRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.BookRun
	res := r.db.Order("started_at desc").Limit(limit).Find(&runs)
	if res.Error != nil {
		return nil, res.Error
	}
	return runs, nil
}

func (r *bookRunRepository) UpsertChapter(record *models.ChapterRecord) error {
	if record.BookRunID == 0 {
		return fmt.Errorf("run ID is required")
	}
	if record.Number <= 0 {
		return fmt.Errorf("chapter number is required")
	}
	// Upsert on composite unique index
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "book_run_id"}, {Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "status", "revision_count", "forced", "word_count", "updated_at"}),
	}).Create(record).Error
}
