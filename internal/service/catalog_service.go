package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

const (
	maxModuleIDLength     = 64
	maxFallbackContentLen = 2000
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	htmlTag     = regexp.MustCompile(`<[^>]*>`)
	whitespace  = regexp.MustCompile(`\s+`)
)

type moduleRepository interface {
	ListCustom(ctx context.Context) ([]models.ModuleDefinition, error)
	FindCustom(ctx context.Context, id string) (*models.ModuleDefinition, error)
	SaveCustom(ctx context.Context, module *models.ModuleDefinition) error
	DeleteCustom(ctx context.Context, id string) error
	ListOverrides(ctx context.Context) (map[string]models.ModuleOverride, error)
	FindOverride(ctx context.Context, id string) (*models.ModuleOverride, error)
	SaveOverride(ctx context.Context, id string, override *models.ModuleOverride) error
	DeleteOverride(ctx context.Context, id string) error
}

// CatalogService resolves the effective module catalog and manages authored modules.
type CatalogService struct {
	repo   moduleRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo moduleRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Resolve returns built-ins with their overrides applied followed by custom modules.
func (s *CatalogService) Resolve(ctx context.Context) ([]models.ModuleDefinition, error) {
	overrides, err := s.repo.ListOverrides(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load module overrides")
	}
	custom, err := s.repo.ListCustom(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load custom modules")
	}

	catalog := BuiltinModules()
	for i, base := range catalog {
		if override, ok := overrides[base.ID]; ok {
			catalog[i] = MergeOverride(base, override)
		}
	}
	for _, module := range custom {
		if IsBuiltinModule(module.ID) {
			s.logger.Warn("custom module shadows built-in id", zap.String("module_id", module.ID))
			continue
		}
		catalog = append(catalog, module)
	}
	return catalog, nil
}

// Find returns one module of the effective catalog.
func (s *CatalogService) Find(ctx context.Context, id string) (*models.ModuleDefinition, error) {
	catalog, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
}

// MergeOverride applies an override to a built-in.
// Blank strings, empty role sets, pages without content and nil objects keep the base value,
// and identity fields always come from the base, so the merge can never empty a module.
// The introduction keeps its roles since every other module is gated on it.
func MergeOverride(base models.ModuleDefinition, override models.ModuleOverride) models.ModuleDefinition {
	merged := base.Clone()
	if v := strings.TrimSpace(override.Title); v != "" {
		merged.Title = override.Title
	}
	if v := strings.TrimSpace(override.Description); v != "" {
		merged.Description = override.Description
	}
	if v := strings.TrimSpace(override.Content); v != "" {
		merged.Content = override.Content
	}
	if !override.Roles.Empty() && base.Kind != models.KindIntro {
		merged.Roles = override.Roles
	}
	if pages := MeaningfulPages(override.Pages); len(pages) > 0 {
		merged.Pages = pages
	}
	if override.Quiz != nil && len(override.Quiz.Questions) > 0 {
		merged.Quiz = override.Quiz.Clone()
	}
	if override.Style != nil {
		merged.Style = override.Style.Clone()
	}
	if !override.UpdatedAt.IsZero() {
		ts := override.UpdatedAt
		merged.UpdatedAt = &ts
		merged.UpdatedBy = override.UpdatedBy
	}
	return merged
}

// FilterVisible keeps the modules sharing a role with roles.
func FilterVisible(catalog []models.ModuleDefinition, roles models.RoleSet) []models.ModuleDefinition {
	visible := make([]models.ModuleDefinition, 0, len(catalog))
	for _, module := range catalog {
		if module.VisibleTo(roles) {
			visible = append(visible, module)
		}
	}
	return visible
}

// MeaningfulPages drops pages with no title, text, html or url.
func MeaningfulPages(pages []models.Page) []models.Page {
	out := make([]models.Page, 0, len(pages))
	for _, page := range pages {
		if page.Meaningful() {
			out = append(out, page)
		}
	}
	return out
}

// AuthoringList lists built-ins and custom modules for the authoring screens.
func (s *CatalogService) AuthoringList(ctx context.Context) ([]dto.AuthoringModule, error) {
	overrides, err := s.repo.ListOverrides(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load module overrides")
	}
	catalog, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuthoringModule, 0, len(catalog))
	for _, module := range catalog {
		builtin := IsBuiltinModule(module.ID)
		_, overridden := overrides[module.ID]
		out = append(out, dto.AuthoringModule{
			ID:         module.ID,
			Title:      module.Title,
			Kind:       module.Kind,
			Roles:      module.Roles.Strings(),
			BuiltIn:    builtin,
			Overridden: builtin && overridden,
		})
	}
	return out, nil
}

// AuthoringDetail returns the effective module and, for built-ins, the raw override.
func (s *CatalogService) AuthoringDetail(ctx context.Context, id string) (*dto.AuthoringDetail, error) {
	module, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &dto.AuthoringDetail{Module: *module, BuiltIn: IsBuiltinModule(id)}
	if detail.BuiltIn {
		override, err := s.repo.FindOverride(ctx, id)
		switch {
		case err == nil:
			detail.Override = override
		case !errors.Is(err, kv.ErrNotFound):
			return nil, appErrors.Internal(err, "failed to load module override")
		}
	}
	return detail, nil
}

// CreateCustom stores a new custom module. The id defaults to a slug of the title.
func (s *CatalogService) CreateCustom(ctx context.Context, caller *models.User, in dto.ModuleInput) (*models.ModuleDefinition, error) {
	id := in.ID
	if strings.TrimSpace(id) == "" {
		id = in.Title
	}
	id = Slugify(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Title required")
	}
	if IsBuiltinModule(id) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "module id is reserved by a built-in module")
	}
	if _, err := s.repo.FindCustom(ctx, id); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "module id already exists")
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, appErrors.Internal(err, "failed to check module id")
	}

	module, err := s.buildCustom(id, caller, in)
	if err != nil {
		return nil, err
	}
	return s.UpsertCustom(ctx, module)
}

// Update replaces the override of a built-in or the record of a custom module.
func (s *CatalogService) Update(ctx context.Context, caller *models.User, id string, in dto.ModuleInput) (*models.ModuleDefinition, error) {
	if IsBuiltinModule(id) {
		override, err := s.buildOverride(caller, in)
		if err != nil {
			return nil, err
		}
		return s.UpsertOverride(ctx, id, override)
	}

	if _, err := s.repo.FindCustom(ctx, id); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Internal(err, "failed to load module")
	}
	module, err := s.buildCustom(id, caller, in)
	if err != nil {
		return nil, err
	}
	return s.UpsertCustom(ctx, module)
}

// Delete reverts a built-in to its base or removes a custom module.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if IsBuiltinModule(id) {
		return s.DeleteOverride(ctx, id)
	}
	return s.DeleteCustom(ctx, id)
}

// UpsertCustom writes the whole custom module record.
func (s *CatalogService) UpsertCustom(ctx context.Context, module *models.ModuleDefinition) (*models.ModuleDefinition, error) {
	if err := s.repo.SaveCustom(ctx, module); err != nil {
		return nil, appErrors.Internal(err, "failed to save module")
	}
	return module, nil
}

// UpsertOverride writes the whole override record and returns the merged module.
func (s *CatalogService) UpsertOverride(ctx context.Context, builtinID string, override *models.ModuleOverride) (*models.ModuleDefinition, error) {
	base, ok := findBuiltin(builtinID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}
	if err := s.repo.SaveOverride(ctx, builtinID, override); err != nil {
		return nil, appErrors.Internal(err, "failed to save module override")
	}
	merged := MergeOverride(base, *override)
	return &merged, nil
}

// DeleteCustom removes a custom module.
func (s *CatalogService) DeleteCustom(ctx context.Context, id string) error {
	if _, err := s.repo.FindCustom(ctx, id); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return appErrors.Internal(err, "failed to load module")
	}
	if err := s.repo.DeleteCustom(ctx, id); err != nil {
		return appErrors.Internal(err, "failed to delete module")
	}
	return nil
}

// DeleteOverride reverts a built-in to its compiled definition.
func (s *CatalogService) DeleteOverride(ctx context.Context, builtinID string) error {
	if err := s.repo.DeleteOverride(ctx, builtinID); err != nil {
		return appErrors.Internal(err, "failed to delete module override")
	}
	return nil
}

func (s *CatalogService) buildCustom(id string, caller *models.User, in dto.ModuleInput) (*models.ModuleDefinition, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Title required")
	}
	roles, err := parseRoles(in.Roles)
	if err != nil {
		return nil, err
	}
	if roles.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one role is required")
	}
	pages, err := normalizePages(in.Pages)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" && len(pages) > 0 {
		content = fallbackContent(pages[0])
	}
	if content == "" && len(pages) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "module needs content or at least one page")
	}
	if err := ValidateQuiz(in.Quiz); err != nil {
		return nil, err
	}

	kind := models.KindCustomContent
	if len(pages) > 0 {
		kind = models.KindCustomPages
	}
	now := s.now()
	return &models.ModuleDefinition{
		ID:            id,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Roles:         roles,
		Kind:          kind,
		RequiredFirst: in.RequiredFirst,
		Content:       content,
		Pages:         pages,
		Quiz:          in.Quiz.Clone(),
		Style:         in.Style.Clone(),
		UpdatedAt:     &now,
		UpdatedBy:     caller.ID,
	}, nil
}

func (s *CatalogService) buildOverride(caller *models.User, in dto.ModuleInput) (*models.ModuleOverride, error) {
	var roles models.RoleSet
	if len(in.Roles) > 0 {
		parsed, err := parseRoles(in.Roles)
		if err != nil {
			return nil, err
		}
		roles = parsed
	}
	pages, err := normalizePages(in.Pages)
	if err != nil {
		return nil, err
	}
	if err := ValidateQuiz(in.Quiz); err != nil {
		return nil, err
	}
	var quiz *models.Quiz
	if in.Quiz != nil && len(in.Quiz.Questions) > 0 {
		quiz = in.Quiz.Clone()
	}
	return &models.ModuleOverride{
		Title:       in.Title,
		Description: in.Description,
		Roles:       roles,
		Content:     in.Content,
		Pages:       pages,
		Quiz:        quiz,
		Style:       in.Style.Clone(),
		UpdatedAt:   s.now(),
		UpdatedBy:   caller.ID,
	}, nil
}

// ValidateQuiz checks every question has a prompt, at least two uniquely identified answers
// and a correct id present among them. A nil quiz is valid.
func ValidateQuiz(quiz *models.Quiz) error {
	if quiz == nil {
		return nil
	}
	for i, question := range quiz.Questions {
		n := i + 1
		if strings.TrimSpace(question.Prompt) == "" {
			return appErrors.Clone(appErrors.ErrValidation, questionReason(n, "needs a prompt"))
		}
		if len(question.Answers) < 2 {
			return appErrors.Clone(appErrors.ErrValidation, questionReason(n, "needs at least 2 answers"))
		}
		seen := make(map[string]struct{}, len(question.Answers))
		for _, answer := range question.Answers {
			if strings.TrimSpace(answer.ID) == "" {
				return appErrors.Clone(appErrors.ErrValidation, questionReason(n, "has an answer without an id"))
			}
			if _, dup := seen[answer.ID]; dup {
				return appErrors.Clone(appErrors.ErrValidation, questionReason(n, "has duplicate answer ids"))
			}
			seen[answer.ID] = struct{}{}
		}
		if _, ok := seen[question.CorrectAnswerID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, questionReason(n, "correct answer is not one of its answers"))
		}
	}
	return nil
}

func questionReason(n int, reason string) string {
	return fmt.Sprintf("question %d %s", n, reason)
}

// Slugify lowercases s and collapses everything outside [a-z0-9] into single dashes.
func Slugify(s string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxModuleIDLength {
		slug = strings.TrimRight(slug[:maxModuleIDLength], "-")
	}
	return slug
}

func normalizePages(pages []models.Page) ([]models.Page, error) {
	out := MeaningfulPages(pages)
	for i := range out {
		switch out[i].Type {
		case "":
			out[i].Type = models.PageRichText
		case models.PageRichText, models.PageMedia:
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown page type "+string(out[i].Type))
		}
	}
	return out, nil
}

// fallbackContent derives plain text from a page for clients that do not render pages.
func fallbackContent(page models.Page) string {
	source := page.Text
	if strings.TrimSpace(source) == "" {
		source = page.HTML
	}
	if strings.TrimSpace(source) == "" {
		source = page.Title
	}
	text := strings.TrimSpace(whitespace.ReplaceAllString(htmlTag.ReplaceAllString(source, " "), " "))
	if runes := []rune(text); len(runes) > maxFallbackContentLen {
		text = string(runes[:maxFallbackContentLen])
	}
	return text
}

func findBuiltin(id string) (models.ModuleDefinition, bool) {
	for _, m := range builtinModules {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return models.ModuleDefinition{}, false
}
