package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestAppliesDefaults(t *testing.T) {
	req, err := NewRequest("  Practical Beekeeping  ", "", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, "Practical Beekeeping", req.Topic)
	assert.Equal(t, DefaultAudience, req.Audience)
	assert.Equal(t, DefaultTone, req.Tone)
	assert.Equal(t, DefaultFormat, req.Format)
	assert.Empty(t, req.Requirements)
}

func TestNewRequestKeepsExplicitValues(t *testing.T) {
	req, err := NewRequest("Gardening", "beginners", "warm", FormatPDF, "  short chapters ")
	require.NoError(t, err)

	assert.Equal(t, "beginners", req.Audience)
	assert.Equal(t, "warm", req.Tone)
	assert.Equal(t, FormatPDF, req.Format)
	assert.Equal(t, "short chapters", req.Requirements)
}

func TestNewRequestRejectsEmptyTopic(t *testing.T) {
	_, err := NewRequest("   ", "", "", "", "")
	assert.EqualError(t, err, "topic is required")
}

func TestNewRequestRejectsUnknownFormat(t *testing.T) {
	_, err := NewRequest("Gardening", "", "", OutputFormat("epub"), "")
	assert.EqualError(t, err, "unsupported output format: epub")
}

func TestOutputFormatExtension(t *testing.T) {
	cases := []struct {
		format OutputFormat
		want   string
	}{
		{FormatMarkdown, ".md"},
		{FormatDoc, ".docx"},
		{FormatPDF, ".pdf"},
		{OutputFormat("epub"), ".md"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.format.Extension(), "format %q", tc.format)
	}
}

func TestOutputFormatValid(t *testing.T) {
	assert.True(t, FormatMarkdown.Valid())
	assert.True(t, FormatDoc.Valid())
	assert.True(t, FormatPDF.Valid())
	assert.False(t, OutputFormat("").Valid())
	assert.False(t, OutputFormat("epub").Valid())
}
