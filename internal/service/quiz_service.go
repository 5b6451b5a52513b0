package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

// Permuter returns a uniformly random permutation of [0, n).
type Permuter func(n int) ([]int, error)

// QuizService shuffles quizzes and scores submissions against a single-use key.
type QuizService struct {
	progress   *ProgressService
	attempts   progressRepository
	metrics    *MetricsService
	logger     *zap.Logger
	attemptTTL time.Duration
	permute    Permuter
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(progress *ProgressService, attempts progressRepository, metrics *MetricsService, logger *zap.Logger, attemptTTL time.Duration) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if attemptTTL <= 0 {
		attemptTTL = 2 * time.Hour
	}
	return &QuizService{
		progress:   progress,
		attempts:   attempts,
		metrics:    metrics,
		logger:     logger,
		attemptTTL: attemptTTL,
		permute:    cryptoPermutation,
	}
}

// Start shuffles every question's answers and stores the correct positions as the attempt key,
// replacing any earlier attempt. The response never identifies the correct answer.
func (s *QuizService) Start(ctx context.Context, user *models.User, moduleID string) (*dto.QuizResponse, error) {
	state, err := s.progress.eligibleState(ctx, user, moduleID)
	if err != nil {
		return nil, err
	}

	questions := state.module.Quiz.Questions
	res := &dto.QuizResponse{
		ModuleID:  state.module.ID,
		Title:     state.module.Title,
		Style:     state.module.Style,
		Questions: make([]dto.QuizQuestionView, len(questions)),
	}
	key := make([]int, len(questions))
	for i, question := range questions {
		perm, err := s.permute(len(question.Answers))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to shuffle answers")
		}
		answers := make([]string, len(perm))
		key[i] = -1
		for pos, src := range perm {
			answers[pos] = question.Answers[src].Text
			if question.Answers[src].ID == question.CorrectAnswerID {
				key[i] = pos
			}
		}
		res.Questions[i] = dto.QuizQuestionView{Prompt: question.Prompt, Answers: answers}
	}

	attempt := &models.QuizAttempt{UserID: user.ID, ModuleID: moduleID, Key: key, StartedAt: s.progress.now()}
	if err := s.attempts.SaveAttempt(ctx, attempt, s.attemptTTL); err != nil {
		return nil, appErrors.Internal(err, "failed to store quiz attempt")
	}
	return res, nil
}

// Submit scores the selected positions. Every position must match; the key is consumed either way.
func (s *QuizService) Submit(ctx context.Context, user *models.User, req dto.QuizSubmitRequest) (*dto.QuizSubmitResponse, error) {
	state, err := s.progress.load(ctx, user, req.ModuleID)
	if err != nil {
		return nil, err
	}
	if reason := AccessReason(state.module, state.visible, user.Roles, state.progress); reason != "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, reason)
	}
	if !state.module.HasQuiz() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, ReasonNoQuiz)
	}

	attempt, err := s.attempts.FindAttempt(ctx, user.ID, req.ModuleID)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, appErrors.ErrExpiredAttempt
		}
		return nil, appErrors.Internal(err, "failed to load quiz attempt")
	}
	if len(attempt.Key) != len(req.Answers) {
		return nil, appErrors.ErrExpiredAttempt
	}

	passed := true
	for i, want := range attempt.Key {
		if req.Answers[i] != want {
			passed = false
			break
		}
	}

	if err := s.attempts.DeleteAttempt(ctx, user.ID, req.ModuleID); err != nil {
		return nil, appErrors.Internal(err, "failed to clear quiz attempt")
	}
	if err := s.progress.recordQuizOutcome(ctx, user, state, passed); err != nil {
		return nil, err
	}
	s.metrics.RecordQuizSubmission(passed)
	s.logger.Info("quiz submitted", zap.String("user_id", user.ID), zap.String("module_id", req.ModuleID), zap.Bool("passed", passed))
	return &dto.QuizSubmitResponse{Passed: passed}, nil
}

// cryptoPermutation is a Fisher-Yates shuffle driven by crypto/rand.
func cryptoPermutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("random index: %w", err)
		}
		k := int(j.Int64())
		perm[i], perm[k] = perm[k], perm[i]
	}
	return perm, nil
}
