package dto

import "github.com/noah-isme/bw-lms-api/internal/models"

// ModuleInput is the authoring payload for custom modules and built-in overrides.
type ModuleInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Roles       []string `json:"roles"`
	// RequiredFirst applies to custom modules only.
	RequiredFirst bool          `json:"requiredFirst"`
	Content       string        `json:"content"`
	Pages         []models.Page `json:"pages"`
	Quiz          *models.Quiz  `json:"quiz"`
	Style         models.Style  `json:"style"`
}

// AuthoringModule is one row of GET /it/modules.
type AuthoringModule struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Kind       models.ModuleKind `json:"kind"`
	Roles      []string          `json:"roles"`
	BuiltIn    bool              `json:"builtIn"`
	Overridden bool              `json:"overridden"`
}

// AuthoringDetail is the editable view of one module.
type AuthoringDetail struct {
	Module   models.ModuleDefinition `json:"module"`
	BuiltIn  bool                    `json:"builtIn"`
	Override *models.ModuleOverride  `json:"override,omitempty"`
}
