package dto

import "github.com/noah-isme/bw-lms-api/internal/models"

// ModuleRequest carries a module id in request bodies.
type ModuleRequest struct {
	ModuleID string `json:"moduleId" binding:"required"`
}

// PageRequest advances the reached page of a paged module.
type PageRequest struct {
	ModuleID  string `json:"moduleId" binding:"required"`
	PageIndex *int   `json:"pageIndex" binding:"required"`
}

// ModuleSummary is one row of the caller's module listing.
type ModuleSummary struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Kind          models.ModuleKind `json:"kind"`
	RequiredFirst bool              `json:"requiredFirst"`
	HasQuiz       bool              `json:"hasQuiz"`
	PageCount     int               `json:"pageCount"`
	Completed     bool              `json:"completed"`
	Locked        bool              `json:"locked"`
}

// ModuleListResponse is the body of GET /modules.
type ModuleListResponse struct {
	Modules      []ModuleSummary `json:"modules"`
	Percent      int             `json:"percent"`
	LockedReason string          `json:"lockedReason,omitempty"`
}

// ModuleView is a module as shown to a learner. The quiz is reduced to its size.
type ModuleView struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Kind          models.ModuleKind `json:"kind"`
	RequiredFirst bool              `json:"requiredFirst"`
	Content       string            `json:"content,omitempty"`
	Pages         []models.Page     `json:"pages,omitempty"`
	Style         models.Style      `json:"style,omitempty"`
	QuestionCount int               `json:"questionCount"`
}

// ModuleDetailResponse is the body of GET /module.
type ModuleDetailResponse struct {
	Module   ModuleView           `json:"module"`
	Progress models.ProgressEntry `json:"progress"`
}

// ProgressResponse is the caller's full progress.
type ProgressResponse struct {
	Progress models.Progress `json:"progress"`
	Percent  int             `json:"percent"`
}

// NewModuleView builds the learner view of a module.
func NewModuleView(module models.ModuleDefinition) ModuleView {
	view := ModuleView{
		ID:            module.ID,
		Title:         module.Title,
		Description:   module.Description,
		Kind:          module.Kind,
		RequiredFirst: module.RequiredFirst,
		Content:       module.Content,
		Pages:         module.Pages,
		Style:         module.Style,
	}
	if module.Quiz != nil {
		view.QuestionCount = len(module.Quiz.Questions)
	}
	return view
}
