package book

// ChapterStatus tracks a single chapter through its drafting lifecycle.
type ChapterStatus string

const (
	ChapterPlanned    ChapterStatus = "planned"
	ChapterGenerating ChapterStatus = "generating"
	ChapterReview     ChapterStatus = "review"
	ChapterRevising   ChapterStatus = "revising"
	ChapterCompleted  ChapterStatus = "completed"
)

func (s ChapterStatus) Valid() bool {
	switch s {
	case ChapterPlanned, ChapterGenerating, ChapterReview, ChapterRevising, ChapterCompleted:
		return true
	}
	return false
}

// Chapter is one planned unit of the book. Number is 1-based and contiguous
// within an outline. Only the wire fields are serialized; drafting state
// stays local to the run.
type Chapter struct {
	Number       int      `json:"chapter_number"`
	Title        string   `json:"title"`
	BulletPoints []string `json:"bullet_points"`

	Content       string        `json:"-"`
	Status        ChapterStatus `json:"-"`
	RevisionCount int           `json:"-"`
	RevisionNotes string        `json:"-"`
}
