package mocks

import (
	"bookforge/internal/models"
)

type BookRunRepositoryMock struct {
	CreateFunc        func(run *models.BookRun) error
	UpdateFunc        func(run *models.BookRun) error
	GetByKeyFunc      func(key string) (*models.BookRun, error)
	ListRecentFunc    func(limit int) ([]models.BookRun, error)
	UpsertChapterFunc func(record *models.ChapterRecord) error
}

func (m *BookRunRepositoryMock) Create(run *models.BookRun) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(run)
	}
	run.ID = 1
	return nil
}

func (m *BookRunRepositoryMock) Update(run *models.BookRun) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(run)
	}
	return nil
}

func (m *BookRunRepositoryMock) GetByKey(key string) (*models.BookRun, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(key)
	}
	return nil, nil
}

func (m *BookRunRepositoryMock) ListRecent(limit int) ([]models.BookRun, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(limit)
	}
	return nil, nil
}

func (m *BookRunRepositoryMock) UpsertChapter(record *models.ChapterRecord) error {
	if m.UpsertChapterFunc != nil {
		return m.UpsertChapterFunc(record)
	}
	return nil
}
