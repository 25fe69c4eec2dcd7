package questionnaire

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pdq-assistant-be/internal/entity"
)

// Definition is the ordered question list every session walks through. It is
// loaded once at startup and shared read-only across all sessions.
type Definition struct {
	questions []entity.Question
}

type questionJSON struct {
	Id      string   `json:"id"`
	Section string   `json:"section"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// NewDefinition validates and wraps an ordered question list. Duplicate ids
// are a configuration error: the answers map is keyed by question id, so a
// duplicate would silently overwrite an earlier answer.
func NewDefinition(questions []entity.Question) (*Definition, error) {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.Id == "" {
			return nil, fmt.Errorf("question with empty id (section %q)", q.Section)
		}
		if _, dup := seen[q.Id]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.Id)
		}
		seen[q.Id] = struct{}{}
	}
	return &Definition{questions: questions}, nil
}

// LoadDefinition reads the question list from a JSON file. When the file does
// not exist the built-in default set is used and written back to the path so
// operators can edit it afterwards.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read questions file: %w", err)
		}
		def, defErr := NewDefinition(DefaultQuestions())
		if defErr != nil {
			return nil, defErr
		}
		if saveErr := def.save(path); saveErr != nil {
			// Not fatal: the in-memory default set still works
			fmt.Printf("[WARN] Failed to write default questions to %s: %v\n", path, saveErr)
		}
		return def, nil
	}

	var items []questionJSON
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}

	questions := make([]entity.Question, len(items))
	for i, it := range items {
		questions[i] = entity.Question{
			Id:      it.Id,
			Section: it.Section,
			Text:    it.Text,
			Kind:    entity.AnswerKind(it.Type),
			Options: it.Options,
		}
	}
	return NewDefinition(questions)
}

func (d *Definition) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	items := make([]questionJSON, len(d.questions))
	for i, q := range d.questions {
		items[i] = questionJSON{
			Id:      q.Id,
			Section: q.Section,
			Text:    q.Text,
			Type:    string(q.Kind),
			Options: q.Options,
		}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func (d *Definition) Len() int {
	return len(d.questions)
}

func (d *Definition) At(i int) *entity.Question {
	q := d.questions[i]
	return &q
}

// Questions returns the questions in definition order.
func (d *Definition) Questions() []entity.Question {
	out := make([]entity.Question, len(d.questions))
	copy(out, d.questions)
	return out
}

// QuestionById resolves an id back to its question, used when rendering a
// finished response. Returns nil for unknown ids.
func (d *Definition) QuestionById(id string) *entity.Question {
	for i := range d.questions {
		if d.questions[i].Id == id {
			q := d.questions[i]
			return &q
		}
	}
	return nil
}
