package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

func reversePermutation(n int) ([]int, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = n - 1 - i
	}
	return perm, nil
}

func newQuizFixture(t *testing.T) (*lmsFixture, *models.User) {
	t.Helper()
	f := newLMSFixture()
	f.quiz.permute = reversePermutation
	user := learner("i1", models.RoleInstructor)
	f.completeIntro(t, user)

	ctx := context.Background()
	_, err := f.progress.RecordView(ctx, user, "vision")
	require.NoError(t, err)
	_, err = f.progress.Acknowledge(ctx, user, "vision")
	require.NoError(t, err)
	return f, user
}

func TestQuizStartShufflesAndStoresKey(t *testing.T) {
	f, user := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 3)
	assert.Equal(t, "vision", quiz.ModuleID)
	assert.Equal(t, []string{"Competition", "Creating confident swimmers", "Profit"}, quiz.Questions[0].Answers)
	assert.Equal(t, []string{"Medals", "Speed", "Safety"}, quiz.Questions[1].Answers)

	attempt, err := f.repo.FindAttempt(ctx, user.ID, "vision")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, attempt.Key)
}

func TestQuizPassCompletesModuleAndConsumesKey(t *testing.T) {
	f, user := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)

	res, err := f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1, 2, 0}})
	require.NoError(t, err)
	assert.True(t, res.Passed)

	progress, err := f.repo.Get(ctx, user.ID)
	require.NoError(t, err)
	entry := progress["vision"]
	assert.True(t, entry.Completed)
	require.NotNil(t, entry.LastQuizPassed)
	assert.True(t, *entry.LastQuizPassed)

	_, err = f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1, 2, 0}})
	assert.True(t, errors.Is(err, appErrors.ErrExpiredAttempt))
}

func TestQuizFailureRecordsOutcomeOnly(t *testing.T) {
	f, user := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)

	res, err := f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1, 2, 1}})
	require.NoError(t, err)
	assert.False(t, res.Passed)

	progress, err := f.repo.Get(ctx, user.ID)
	require.NoError(t, err)
	entry := progress["vision"]
	assert.False(t, entry.Completed)
	require.NotNil(t, entry.LastQuizPassed)
	assert.False(t, *entry.LastQuizPassed)
	assert.NotNil(t, entry.ViewedAt)

	_, err = f.repo.FindAttempt(ctx, user.ID, "vision")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestQuizSubmitWithoutAttempt(t *testing.T) {
	f, user := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1, 2, 0}})
	assert.ErrorIs(t, err, appErrors.ErrExpiredAttempt)

	_, err = f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)
	_, err = f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1}})
	assert.ErrorIs(t, err, appErrors.ErrExpiredAttempt)
}

func TestQuizRestartReplacesKey(t *testing.T) {
	f, user := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)
	f.quiz.permute = func(n int) ([]int, error) {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		return perm, nil
	}
	_, err = f.quiz.Start(ctx, user, "vision")
	require.NoError(t, err)

	res, err := f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: "vision", Answers: []int{1, 0, 2}})
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestQuizStartRequiresEligibility(t *testing.T) {
	f := newLMSFixture()
	ctx := context.Background()
	user := learner("i1", models.RoleInstructor)

	_, err := f.quiz.Start(ctx, user, "vision")
	assertForbiddenReason(t, err, ReasonIntroFirst)

	f.completeIntro(t, user)
	_, err = f.quiz.Start(ctx, user, "vision")
	assertForbiddenReason(t, err, ReasonNotViewed)

	_, err = f.quiz.Start(ctx, user, models.IntroductionModuleID)
	assertForbiddenReason(t, err, ReasonNoQuiz)

	_, err = f.quiz.Submit(ctx, user, dto.QuizSubmitRequest{ModuleID: models.IntroductionModuleID, Answers: []int{0}})
	assertForbiddenReason(t, err, ReasonNoQuiz)

	_, err = f.quiz.Start(ctx, user, "management")
	assertForbiddenReason(t, err, ReasonNoAccess)
}

func TestCryptoPermutationIsPermutation(t *testing.T) {
	perm, err := cryptoPermutation(6)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5}, perm)

	empty, err := cryptoPermutation(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
