package models

import (
	"strings"
	"time"
)

// ModuleKind tags the shape of a module definition.
type ModuleKind string

const (
	KindIntro         ModuleKind = "intro"
	KindStandard      ModuleKind = "standard"
	KindCustomContent ModuleKind = "custom-content"
	KindCustomPages   ModuleKind = "custom-pages"
)

// IntroductionModuleID is the built-in module every other module is gated on.
const IntroductionModuleID = "introduction"

// PageType distinguishes rich text pages from media pages.
type PageType string

const (
	PageRichText PageType = "richtext"
	PageMedia    PageType = "media"
)

// Page is one step of a paged module.
type Page struct {
	Type      PageType `json:"type"`
	Title     string   `json:"title,omitempty"`
	HTML      string   `json:"html,omitempty"`
	Text      string   `json:"text,omitempty"`
	MediaType string   `json:"mediaType,omitempty"`
	URL       string   `json:"url,omitempty"`
	Caption   string   `json:"caption,omitempty"`
}

// Meaningful reports whether the page carries any renderable content.
func (p Page) Meaningful() bool {
	for _, field := range []string{p.Title, p.Text, p.HTML, p.URL} {
		if strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

// Answer is a selectable quiz option.
type Answer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a single quiz question with exactly one correct answer.
type Question struct {
	Prompt          string   `json:"prompt"`
	Answers         []Answer `json:"answers"`
	CorrectAnswerID string   `json:"correctAnswerId"`
}

// Quiz is the ordered question set of a module.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Style carries opaque presentation hints.
type Style map[string]string

// ModuleDefinition is an entry of the effective catalog.
type ModuleDefinition struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Roles         RoleSet    `json:"roles"`
	Kind          ModuleKind `json:"kind"`
	RequiredFirst bool       `json:"requiredFirst,omitempty"`
	Content       string     `json:"content,omitempty"`
	Pages         []Page     `json:"pages,omitempty"`
	Quiz          *Quiz      `json:"quiz,omitempty"`
	Style         Style      `json:"style,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
}

// HasQuiz reports whether the module ends with a quiz.
func (m ModuleDefinition) HasQuiz() bool {
	return m.Quiz != nil && len(m.Quiz.Questions) > 0
}

// Paged reports whether the module is rendered page by page.
func (m ModuleDefinition) Paged() bool {
	return len(m.Pages) > 0
}

// LastPageIndex is the index a learner must reach before acknowledging, or 0 when unpaged.
func (m ModuleDefinition) LastPageIndex() int {
	if len(m.Pages) == 0 {
		return 0
	}
	return len(m.Pages) - 1
}

// VisibleTo reports whether any of roles may see the module.
func (m ModuleDefinition) VisibleTo(roles RoleSet) bool {
	return m.Roles.Intersects(roles)
}

// Clone returns a deep copy.
func (m ModuleDefinition) Clone() ModuleDefinition {
	out := m
	if m.Pages != nil {
		out.Pages = append([]Page(nil), m.Pages...)
	}
	out.Quiz = m.Quiz.Clone()
	out.Style = m.Style.Clone()
	if m.UpdatedAt != nil {
		ts := *m.UpdatedAt
		out.UpdatedAt = &ts
	}
	return out
}

// Clone returns a deep copy of the quiz.
func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	out := &Quiz{Questions: make([]Question, len(q.Questions))}
	for i, question := range q.Questions {
		question.Answers = append([]Answer(nil), question.Answers...)
		out.Questions[i] = question
	}
	return out
}

// Clone returns a copy of the style map.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ModuleOverride shadows fields of a built-in module. Zero fields leave the base untouched.
type ModuleOverride struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Roles       RoleSet   `json:"roles"`
	Content     string    `json:"content,omitempty"`
	Pages       []Page    `json:"pages,omitempty"`
	Quiz        *Quiz     `json:"quiz,omitempty"`
	Style       Style     `json:"style,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
}
