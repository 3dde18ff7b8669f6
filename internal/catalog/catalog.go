// Package catalog holds the fixed topic-to-questions lookup table that
// backs deterministic quiz generation. The table is parsed once at
// startup from an embedded YAML file and never mutated afterwards;
// callers receive the catalog by reference through their constructors.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var topicsYAML []byte

// ErrTopicOutOfScope marks a requested topic that has no catalog entry.
var ErrTopicOutOfScope = errors.New("topic is outside the supported demo set")

// Question is the opaque payload persisted verbatim per quiz question.
// JSON keys match the stored quiz_question.data layout.
type Question struct {
	Text               string   `yaml:"text" json:"text"`
	Options            []string `yaml:"options" json:"options"`
	CorrectAnswerIndex int      `yaml:"correct_answer_index" json:"correct_answer_index"`
}

type Topic struct {
	Name        string     `yaml:"name"`
	DisplayName string     `yaml:"display_name"`
	Questions   []Question `yaml:"questions"`
}

type Catalog struct {
	topics map[string]Topic
}

const questionsPerTopic = 5

// Load parses and validates the embedded topic table. It is meant to
// run once at process start; a validation failure is a build data bug
// and should abort startup.
func Load() (*Catalog, error) {
	var doc struct {
		Topics []Topic `yaml:"topics"`
	}
	if err := yaml.Unmarshal(topicsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse topic catalog: %w", err)
	}
	if len(doc.Topics) == 0 {
		return nil, fmt.Errorf("topic catalog is empty")
	}

	topics := make(map[string]Topic, len(doc.Topics))
	for _, t := range doc.Topics {
		key := Normalize(t.Name)
		if key == "" {
			return nil, fmt.Errorf("topic with empty name in catalog")
		}
		if _, dup := topics[key]; dup {
			return nil, fmt.Errorf("duplicate topic %q in catalog", key)
		}
		if len(t.Questions) != questionsPerTopic {
			return nil, fmt.Errorf("topic %q has %d questions, want %d", key, len(t.Questions), questionsPerTopic)
		}
		for i, q := range t.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("topic %q question %d has empty text", key, i)
			}
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("topic %q question %d has %d options, want >= 2", key, i, len(q.Options))
			}
			if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
				return nil, fmt.Errorf("topic %q question %d correct index %d out of range", key, i, q.CorrectAnswerIndex)
			}
		}
		topics[key] = t
	}
	return &Catalog{topics: topics}, nil
}

// Normalize maps user topic input onto catalog keys: trimmed,
// lowercased.
func Normalize(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// Generate returns the fixed question set for topic, or
// ErrTopicOutOfScope with no partial result. Deterministic and
// idempotent per topic string: no randomness, no network.
func (c *Catalog) Generate(topic string) ([]Question, error) {
	t, ok := c.topics[Normalize(topic)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (try one of the AI demo topics, e.g. %q or %q)",
			ErrTopicOutOfScope, topic, "machine learning", "turing test")
	}
	// Deep copy so callers can never mutate the catalog entry, not
	// even through an Options slice.
	out := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		out[i] = q
		out[i].Options = append([]string(nil), q.Options...)
	}
	return out, nil
}

// Topics lists the supported topic keys in stable order.
func (c *Catalog) Topics() []string {
	names := make([]string, 0, len(c.topics))
	for name := range c.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
