package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineJSON = `{
  "title": "Practical Beekeeping",
  "chapters": [
    {"chapter_number": 1, "title": "Getting Started", "bullet_points": ["gear", "safety"]},
    {"chapter_number": 2, "title": "The First Hive", "bullet_points": ["siting"]}
  ]
}`

func TestParseOutline(t *testing.T) {
	outline, err := ParseOutline([]byte(outlineJSON))
	require.NoError(t, err)

	assert.Equal(t, "Practical Beekeeping", outline.Title)
	require.Len(t, outline.Chapters, 2)
	assert.Equal(t, 1, outline.Chapters[0].Number)
	assert.Equal(t, []string{"gear", "safety"}, outline.Chapters[0].BulletPoints)
	for _, ch := range outline.Chapters {
		assert.Equal(t, ChapterPlanned, ch.Status)
	}
}

func TestParseOutlineRejectsMalformedJSON(t *testing.T) {
	_, err := ParseOutline([]byte(`{"title": "Broken"`))
	assert.Error(t, err)
}

func TestOutlineValidate(t *testing.T) {
	cases := []struct {
		name    string
		outline Outline
		wantErr string
	}{
		{
			name:    "empty title",
			outline: Outline{Title: "  ", Chapters: []*Chapter{{Number: 1, Title: "A"}}},
			wantErr: "outline title is empty",
		},
		{
			name:    "no chapters",
			outline: Outline{Title: "Book"},
			wantErr: "outline has no chapters",
		},
		{
			name:    "null chapter",
			outline: Outline{Title: "Book", Chapters: []*Chapter{nil}},
			wantErr: "chapter at position 0 is null",
		},
		{
			name:    "zero-based numbering",
			outline: Outline{Title: "Book", Chapters: []*Chapter{{Number: 0, Title: "A"}}},
			wantErr: "chapter numbers must be contiguous and 1-based: position 0 has number 0",
		},
		{
			name: "gap in numbering",
			outline: Outline{Title: "Book", Chapters: []*Chapter{
				{Number: 1, Title: "A"}, {Number: 3, Title: "B"},
			}},
			wantErr: "chapter numbers must be contiguous and 1-based: position 1 has number 3",
		},
		{
			name:    "empty chapter title",
			outline: Outline{Title: "Book", Chapters: []*Chapter{{Number: 1, Title: " "}}},
			wantErr: "chapter 1 has an empty title",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualError(t, tc.outline.Validate(), tc.wantErr)
		})
	}
}

func TestOutlineJSONRoundTrip(t *testing.T) {
	outline, err := ParseOutline([]byte(outlineJSON))
	require.NoError(t, err)
	outline.Status = OutlineApproved
	outline.RevisionNotes = "tighten chapter two"
	outline.Chapters[0].Content = "draft text"
	outline.Chapters[0].RevisionCount = 2

	out, err := outline.JSON()
	require.NoError(t, err)

	// Only the wire fields survive; drafting state stays local.
	assert.Contains(t, out, `"chapter_number": 1`)
	assert.Contains(t, out, `"bullet_points"`)
	assert.NotContains(t, out, "approved")
	assert.NotContains(t, out, "tighten chapter two")
	assert.NotContains(t, out, "draft text")

	reparsed, err := ParseOutline([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, outline.Title, reparsed.Title)
	assert.Len(t, reparsed.Chapters, 2)
}

func TestChapterAt(t *testing.T) {
	outline, err := ParseOutline([]byte(outlineJSON))
	require.NoError(t, err)

	ch, ok := outline.ChapterAt(1)
	require.True(t, ok)
	assert.Equal(t, "The First Hive", ch.Title)

	_, ok = outline.ChapterAt(-1)
	assert.False(t, ok)
	_, ok = outline.ChapterAt(2)
	assert.False(t, ok)

	var nilOutline *Outline
	_, ok = nilOutline.ChapterAt(0)
	assert.False(t, ok)
}

func TestWorkflowStateHelpers(t *testing.T) {
	req, err := NewRequest("Bees", "", "", FormatMarkdown, "")
	require.NoError(t, err)

	state := NewWorkflowState(req)
	assert.Equal(t, 0, state.ChapterCount())
	assert.Equal(t, 0, state.TotalChapterRevisions())
	_, ok := state.CurrentChapter()
	assert.False(t, ok)
	assert.False(t, state.CreatedAt.IsZero())

	state.Outline, err = ParseOutline([]byte(outlineJSON))
	require.NoError(t, err)
	state.Outline.Chapters[0].RevisionCount = 1
	state.Outline.Chapters[1].RevisionCount = 2
	state.ChapterIndex = 1

	assert.Equal(t, 2, state.ChapterCount())
	assert.Equal(t, 3, state.TotalChapterRevisions())
	ch, ok := state.CurrentChapter()
	require.True(t, ok)
	assert.Equal(t, 2, ch.Number)
}
