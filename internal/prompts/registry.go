// Package prompts holds the embedded prompt templates driving every model
// call in the book workflow, keyed by stable prompt IDs.
package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptOutlineGeneration PromptID = "outline_generation"
	PromptOutlineReview     PromptID = "outline_review"
	PromptOutlineRevision   PromptID = "outline_revision"
	PromptChapterGeneration PromptID = "chapter_generation"
	PromptChapterReview     PromptID = "chapter_review"
	PromptChapterRevision   PromptID = "chapter_revision"
)

// Registry resolves prompt IDs to parsed chat templates, caching each
// template after its first load.
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// ChatTemplate returns the template for id. Templates use FString
// placeholders, so literal braces in the embedded files are doubled.
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	systemPath, userPath, err := resolvePromptFiles(id)
	if err != nil {
		return nil, err
	}

	var messages []schema.MessagesTemplate
	if systemPath != "" {
		system, err := readEmbeddedText(systemPath)
		if err != nil {
			return nil, err
		}
		messages = append(messages, schema.SystemMessage(system))
	}
	user, err := readEmbeddedText(userPath)
	if err != nil {
		return nil, err
	}
	messages = append(messages, schema.UserMessage(user))

	tpl := einoprompt.FromMessages(schema.FString, messages...)
	r.cache[id] = tpl
	return tpl, nil
}

// Render formats the template for id with the given variables.
func (r *Registry) Render(ctx context.Context, id PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("formatting prompt %s: %w", id, err)
	}
	return msgs, nil
}

// resolvePromptFiles maps a prompt ID to its template files. Prompts
// without a reviewer or author persona have no system file.
func resolvePromptFiles(id PromptID) (systemFile string, userFile string, err error) {
	switch id {
	case PromptOutlineGeneration:
		return "templates/outline_generation.system.txt", "templates/outline_generation.user.txt", nil
	case PromptOutlineReview:
		return "templates/outline_review.system.txt", "templates/outline_review.user.txt", nil
	case PromptOutlineRevision:
		return "", "templates/outline_revision.user.txt", nil
	case PromptChapterGeneration:
		return "", "templates/chapter_generation.user.txt", nil
	case PromptChapterReview:
		return "templates/chapter_review.system.txt", "templates/chapter_review.user.txt", nil
	case PromptChapterRevision:
		return "", "templates/chapter_revision.user.txt", nil
	default:
		return "", "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
