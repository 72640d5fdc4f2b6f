package book

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutlineStatus tracks the outline approval lifecycle, independent of any
// individual chapter's status.
type OutlineStatus string

const (
	OutlineGenerating OutlineStatus = "generating"
	OutlineReview     OutlineStatus = "review"
	OutlineRevising   OutlineStatus = "revising"
	OutlineApproved   OutlineStatus = "approved"
)

func (s OutlineStatus) Valid() bool {
	switch s {
	case OutlineGenerating, OutlineReview, OutlineRevising, OutlineApproved:
		return true
	}
	return false
}

// Outline is the agreed skeleton of the book: a title plus the ordered
// chapter sequence. Chapter order always equals chapter-number order.
type Outline struct {
	Title    string     `json:"title"`
	Chapters []*Chapter `json:"chapters"`

	Status OutlineStatus `json:"-"`

	// RevisionNotes carries the full reviewer critique into the next
	// revision pass. Cleared once the outline is approved.
	RevisionNotes string `json:"-"`
}

// ParseOutline decodes the outline JSON produced by the model and validates
// its shape. Every parsed chapter starts out Planned.
func ParseOutline(data []byte) (*Outline, error) {
	var outline Outline
	if err := json.Unmarshal(data, &outline); err != nil {
		return nil, err
	}
	if err := outline.Validate(); err != nil {
		return nil, err
	}
	for _, ch := range outline.Chapters {
		ch.Status = ChapterPlanned
	}
	return &outline, nil
}

// Validate enforces the structural invariants: a non-empty title, at least
// one chapter, and contiguous 1-based chapter numbers matching sequence
// order.
func (o *Outline) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("outline title is empty")
	}
	if len(o.Chapters) == 0 {
		return fmt.Errorf("outline has no chapters")
	}
	for i, ch := range o.Chapters {
		if ch == nil {
			return fmt.Errorf("chapter at position %d is null", i)
		}
		if ch.Number != i+1 {
			return fmt.Errorf("chapter numbers must be contiguous and 1-based: position %d has number %d", i, ch.Number)
		}
		if strings.TrimSpace(ch.Title) == "" {
			return fmt.Errorf("chapter %d has an empty title", ch.Number)
		}
	}
	return nil
}

// JSON re-serializes the outline wire fields (title, chapter numbers,
// chapter titles, bullet points) for revision prompts.
func (o *Outline) JSON() (string, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ChapterAt returns the chapter at the 0-based index, reporting whether the
// index is within the sequence.
func (o *Outline) ChapterAt(index int) (*Chapter, bool) {
	if o == nil || index < 0 || index >= len(o.Chapters) {
		return nil, false
	}
	return o.Chapters[index], true
}
