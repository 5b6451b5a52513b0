package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

// Gating reasons, reported to clients verbatim.
const (
	ReasonNoAccess        = "You do not have access to this module."
	ReasonIntroFirst      = "Complete the introduction first."
	ReasonRequiredFirst   = "Complete the required modules first."
	ReasonNoQuiz          = "This module has no quiz."
	ReasonNotViewed       = "Must open module first"
	ReasonNotAcknowledged = "Must acknowledge first"
	ReasonPagesIncomplete = "Reach the last page first."
	ReasonQuizRequired    = "Pass the quiz to complete this module."
)

type progressRepository interface {
	Get(ctx context.Context, userID string) (models.Progress, error)
	Save(ctx context.Context, userID string, progress models.Progress) error
	Delete(ctx context.Context, userID string) error
	SaveAttempt(ctx context.Context, attempt *models.QuizAttempt, ttl time.Duration) error
	FindAttempt(ctx context.Context, userID, moduleID string) (*models.QuizAttempt, error)
	DeleteAttempt(ctx context.Context, userID, moduleID string) error
	DeleteAttempts(ctx context.Context, userID string) error
}

type catalogResolver interface {
	Resolve(ctx context.Context) ([]models.ModuleDefinition, error)
}

// ProgressService is the per-user progression state machine.
type ProgressService struct {
	catalog catalogResolver
	repo    progressRepository
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(catalog catalogResolver, repo progressRepository, metrics *MetricsService, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{catalog: catalog, repo: repo, metrics: metrics, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// moduleState is everything a transition needs, loaded once per request.
type moduleState struct {
	module   models.ModuleDefinition
	visible  []models.ModuleDefinition
	progress models.Progress
	entry    models.ProgressEntry
}

// AccessReason returns why module is locked for roles, or "" when it is accessible.
// Listing and every transition go through this one rule: role match, then the
// introduction, then any other incomplete required-first module.
func AccessReason(module models.ModuleDefinition, visible []models.ModuleDefinition, roles models.RoleSet, progress models.Progress) string {
	if !module.VisibleTo(roles) {
		return ReasonNoAccess
	}
	if module.ID == models.IntroductionModuleID {
		return ""
	}
	if !progress.Completed(models.IntroductionModuleID) {
		return ReasonIntroFirst
	}
	if module.RequiredFirst {
		return ""
	}
	for _, m := range visible {
		if m.RequiredFirst && !progress.Completed(m.ID) {
			return ReasonRequiredFirst
		}
	}
	return ""
}

// Percent is round(100 * completed / visible), 0 when nothing is visible.
func Percent(visible []models.ModuleDefinition, progress models.Progress) int {
	if len(visible) == 0 {
		return 0
	}
	completed := 0
	for _, m := range visible {
		if progress.Completed(m.ID) {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(visible))))
}

func eligibilityReason(state *moduleState, roles models.RoleSet) string {
	if reason := AccessReason(state.module, state.visible, roles, state.progress); reason != "" {
		return reason
	}
	if !state.module.HasQuiz() {
		return ReasonNoQuiz
	}
	if state.entry.ViewedAt == nil {
		return ReasonNotViewed
	}
	if !state.entry.Acknowledged {
		return ReasonNotAcknowledged
	}
	if state.entry.PageIndex < state.module.LastPageIndex() {
		return ReasonPagesIncomplete
	}
	return ""
}

func (s *ProgressService) load(ctx context.Context, user *models.User, moduleID string) (*moduleState, error) {
	catalog, err := s.catalog.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var module *models.ModuleDefinition
	for i := range catalog {
		if catalog[i].ID == moduleID {
			module = &catalog[i]
			break
		}
	}
	if module == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}
	progress, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load progress")
	}
	return &moduleState{
		module:   *module,
		visible:  FilterVisible(catalog, user.Roles),
		progress: progress,
		entry:    progress[moduleID],
	}, nil
}

func (s *ProgressService) loadAccessible(ctx context.Context, user *models.User, moduleID string) (*moduleState, error) {
	state, err := s.load(ctx, user, moduleID)
	if err != nil {
		return nil, err
	}
	if reason := AccessReason(state.module, state.visible, user.Roles, state.progress); reason != "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, reason)
	}
	return state, nil
}

func (s *ProgressService) save(ctx context.Context, user *models.User, state *moduleState) error {
	state.progress[state.module.ID] = state.entry
	if err := s.repo.Save(ctx, user.ID, state.progress); err != nil {
		return appErrors.Internal(err, "failed to save progress")
	}
	return nil
}

// CanAccess reports whether the user may open the module.
func (s *ProgressService) CanAccess(ctx context.Context, user *models.User, moduleID string) error {
	_, err := s.loadAccessible(ctx, user, moduleID)
	return err
}

// RecordView sets viewedAt on first view.
func (s *ProgressService) RecordView(ctx context.Context, user *models.User, moduleID string) (models.ProgressEntry, error) {
	state, err := s.loadAccessible(ctx, user, moduleID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if state.entry.ViewedAt != nil {
		return state.entry, nil
	}
	now := s.now()
	state.entry.ViewedAt = &now
	if err := s.save(ctx, user, state); err != nil {
		return models.ProgressEntry{}, err
	}
	return state.entry, nil
}

// Acknowledge marks the module content as read. Paged modules require the last page first.
func (s *ProgressService) Acknowledge(ctx context.Context, user *models.User, moduleID string) (models.ProgressEntry, error) {
	state, err := s.loadAccessible(ctx, user, moduleID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if state.entry.PageIndex < state.module.LastPageIndex() {
		return models.ProgressEntry{}, appErrors.Clone(appErrors.ErrForbidden, ReasonPagesIncomplete)
	}
	if state.entry.Acknowledged {
		return state.entry, nil
	}
	now := s.now()
	state.entry.Acknowledged = true
	state.entry.AcknowledgedAt = &now
	if err := s.save(ctx, user, state); err != nil {
		return models.ProgressEntry{}, err
	}
	return state.entry, nil
}

// AdvancePage raises the reached page, clamped to the module's pages. It never decreases.
func (s *ProgressService) AdvancePage(ctx context.Context, user *models.User, moduleID string, pageIndex int) (models.ProgressEntry, error) {
	state, err := s.loadAccessible(ctx, user, moduleID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if !state.module.Paged() {
		return models.ProgressEntry{}, appErrors.Clone(appErrors.ErrValidation, "module has no pages")
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	if last := state.module.LastPageIndex(); pageIndex > last {
		pageIndex = last
	}
	if pageIndex <= state.entry.PageIndex {
		return state.entry, nil
	}
	state.entry.PageIndex = pageIndex
	if err := s.save(ctx, user, state); err != nil {
		return models.ProgressEntry{}, err
	}
	return state.entry, nil
}

// CheckQuizEligibility returns a Forbidden error carrying the first failing reason.
func (s *ProgressService) CheckQuizEligibility(ctx context.Context, user *models.User, moduleID string) error {
	_, err := s.eligibleState(ctx, user, moduleID)
	return err
}

func (s *ProgressService) eligibleState(ctx context.Context, user *models.User, moduleID string) (*moduleState, error) {
	state, err := s.load(ctx, user, moduleID)
	if err != nil {
		return nil, err
	}
	if reason := eligibilityReason(state, user.Roles); reason != "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, reason)
	}
	return state, nil
}

// CompleteModule completes a quiz-less module once it has been viewed, acknowledged and paged through.
// Completing an already completed module is a no-op.
func (s *ProgressService) CompleteModule(ctx context.Context, user *models.User, moduleID string) (models.ProgressEntry, error) {
	state, err := s.loadAccessible(ctx, user, moduleID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if state.entry.Completed {
		return state.entry, nil
	}
	var reason string
	switch {
	case state.module.HasQuiz():
		reason = ReasonQuizRequired
	case state.entry.ViewedAt == nil:
		reason = ReasonNotViewed
	case !state.entry.Acknowledged:
		reason = ReasonNotAcknowledged
	case state.entry.PageIndex < state.module.LastPageIndex():
		reason = ReasonPagesIncomplete
	}
	if reason != "" {
		return models.ProgressEntry{}, appErrors.Clone(appErrors.ErrForbidden, reason)
	}
	s.markCompleted(state)
	if err := s.save(ctx, user, state); err != nil {
		return models.ProgressEntry{}, err
	}
	return state.entry, nil
}

// CompleteIntroduction completes the introduction, unlocking the rest of the catalog.
func (s *ProgressService) CompleteIntroduction(ctx context.Context, user *models.User) (models.ProgressEntry, error) {
	return s.CompleteModule(ctx, user, models.IntroductionModuleID)
}

// recordQuizOutcome stores the result of an evaluated attempt and completes the module on a pass.
func (s *ProgressService) recordQuizOutcome(ctx context.Context, user *models.User, state *moduleState, passed bool) error {
	progress, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return appErrors.Internal(err, "failed to load progress")
	}
	state.progress = progress
	state.entry = progress[state.module.ID]

	now := s.now()
	state.entry.LastQuizPassed = &passed
	state.entry.LastQuizAt = &now
	if passed && !state.entry.Completed {
		s.markCompleted(state)
	}
	return s.save(ctx, user, state)
}

func (s *ProgressService) markCompleted(state *moduleState) {
	now := s.now()
	state.entry.Completed = true
	state.entry.CompletedAt = &now
	s.metrics.RecordModuleCompletion()
}

// List returns the caller's visible modules with lock and completion flags.
// Required-first modules are listed first.
func (s *ProgressService) List(ctx context.Context, user *models.User) (*dto.ModuleListResponse, error) {
	catalog, err := s.catalog.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load progress")
	}
	visible := FilterVisible(catalog, user.Roles)
	ordered := append([]models.ModuleDefinition(nil), visible...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].RequiredFirst && !ordered[j].RequiredFirst })

	res := &dto.ModuleListResponse{Modules: make([]dto.ModuleSummary, 0, len(ordered)), Percent: Percent(visible, progress)}
	for _, m := range ordered {
		reason := AccessReason(m, visible, user.Roles, progress)
		if reason != "" && res.LockedReason == "" {
			res.LockedReason = reason
		}
		res.Modules = append(res.Modules, dto.ModuleSummary{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Kind:          m.Kind,
			RequiredFirst: m.RequiredFirst,
			HasQuiz:       m.HasQuiz(),
			PageCount:     len(m.Pages),
			Completed:     progress.Completed(m.ID),
			Locked:        reason != "",
		})
	}
	return res, nil
}

// Detail returns a module with the caller's entry. Invisible modules are reported as not found.
func (s *ProgressService) Detail(ctx context.Context, user *models.User, moduleID string) (*dto.ModuleDetailResponse, error) {
	state, err := s.load(ctx, user, moduleID)
	if err != nil {
		return nil, err
	}
	if !state.module.VisibleTo(user.Roles) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
	}
	if reason := AccessReason(state.module, state.visible, user.Roles, state.progress); reason != "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, reason)
	}
	return &dto.ModuleDetailResponse{Module: dto.NewModuleView(state.module), Progress: state.entry}, nil
}

// Progress returns the caller's full progress map and percent.
func (s *ProgressService) Progress(ctx context.Context, user *models.User) (*dto.ProgressResponse, error) {
	catalog, err := s.catalog.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.repo.Get(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load progress")
	}
	return &dto.ProgressResponse{Progress: progress, Percent: Percent(FilterVisible(catalog, user.Roles), progress)}, nil
}

// Report summarises a user's progress over the modules visible to them, sorted by title.
func (s *ProgressService) Report(ctx context.Context, target *models.User) (*dto.ProgressReport, error) {
	catalog, err := s.catalog.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.repo.Get(ctx, target.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load progress")
	}
	visible := FilterVisible(catalog, target.Roles)
	report := &dto.ProgressReport{
		User:    dto.NewUserResponse(*target),
		Modules: make([]dto.ModuleStatus, 0, len(visible)),
		Percent: Percent(visible, progress),
	}
	for _, m := range visible {
		status := "Pending"
		if progress.Completed(m.ID) {
			status = "Complete"
		}
		report.Modules = append(report.Modules, dto.ModuleStatus{ID: m.ID, Title: m.Title, Status: status})
	}
	sort.SliceStable(report.Modules, func(i, j int) bool { return report.Modules[i].Title < report.Modules[j].Title })
	return report, nil
}

// PurgeUser drops durable progress and in-flight quiz attempts.
func (s *ProgressService) PurgeUser(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return appErrors.Internal(err, "failed to reset progress")
	}
	if err := s.repo.DeleteAttempts(ctx, userID); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return appErrors.Internal(err, "failed to clear quiz attempts")
	}
	return nil
}
