package book

import (
	"fmt"
	"strings"
)

// OutputFormat selects the final artifact rendering.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatDoc      OutputFormat = "doc"
	FormatPDF      OutputFormat = "pdf"
)

const (
	DefaultAudience = "general readers"
	DefaultTone     = "professional but conversational"
	DefaultFormat   = FormatDoc
)

func (f OutputFormat) Valid() bool {
	switch f {
	case FormatMarkdown, FormatDoc, FormatPDF:
		return true
	}
	return false
}

// Extension returns the file extension for the format, including the dot.
// Anything unrecognized maps to .md because unsupported formats fall back
// to writing the raw compiled text.
func (f OutputFormat) Extension() string {
	switch f {
	case FormatDoc:
		return ".docx"
	case FormatPDF:
		return ".pdf"
	default:
		return ".md"
	}
}

// GenerationRequest carries the user's run parameters. It is immutable once
// a workflow run starts.
type GenerationRequest struct {
	Topic        string       `json:"topic"`
	Audience     string       `json:"audience"`
	Tone         string       `json:"tone"`
	Format       OutputFormat `json:"format"`
	Requirements string       `json:"requirements,omitempty"`
}

// NewRequest trims and validates the run parameters, applying the documented
// defaults for audience, tone and format.
func NewRequest(topic, audience, tone string, format OutputFormat, requirements string) (GenerationRequest, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return GenerationRequest{}, fmt.Errorf("topic is required")
	}

	audience = strings.TrimSpace(audience)
	if audience == "" {
		audience = DefaultAudience
	}
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = DefaultTone
	}
	if format == "" {
		format = DefaultFormat
	}
	if !format.Valid() {
		return GenerationRequest{}, fmt.Errorf("unsupported output format: %s", format)
	}

	return GenerationRequest{
		Topic:        topic,
		Audience:     audience,
		Tone:         tone,
		Format:       format,
		Requirements: strings.TrimSpace(requirements),
	}, nil
}
