package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/yungbote/studyai-backend/internal/catalog"
	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/types"
)

type fakeAI struct {
	reply string
	err   error
}

func (f *fakeAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAI) Available() bool { return f.err == nil }

func questionRow(t *testing.T, text string, options []string, correct int) *types.QuizQuestion {
	t.Helper()
	raw, err := json.Marshal(catalog.Question{Text: text, Options: options, CorrectAnswerIndex: correct})
	require.NoError(t, err)
	return &types.QuizQuestion{ID: uuid.New(), Data: datatypes.JSON(raw)}
}

func TestGradeAnswersAllCorrect(t *testing.T) {
	questions := []*types.QuizQuestion{
		questionRow(t, "q1", []string{"a", "b"}, 0),
		questionRow(t, "q2", []string{"a", "b"}, 1),
		questionRow(t, "q3", []string{"a", "b", "c"}, 2),
	}
	answers := map[string]string{}
	for i, q := range questions {
		answers[q.ID.String()] = []string{"0", "1", "2"}[i]
	}
	score, total := gradeAnswers(questions, answers)
	assert.Equal(t, 3, score)
	assert.Equal(t, 3, total)
}

func TestGradeAnswersMissingCountsWrong(t *testing.T) {
	questions := []*types.QuizQuestion{
		questionRow(t, "q1", []string{"a", "b"}, 0),
		questionRow(t, "q2", []string{"a", "b"}, 1),
	}
	answers := map[string]string{questions[0].ID.String(): "0"}
	score, total := gradeAnswers(questions, answers)
	assert.Equal(t, 1, score)
	assert.Equal(t, 2, total)
}

func TestGradeAnswersStringComparison(t *testing.T) {
	q := questionRow(t, "q1", []string{"a", "b"}, 1)
	score, _ := gradeAnswers([]*types.QuizQuestion{q}, map[string]string{q.ID.String(): "1"})
	assert.Equal(t, 1, score)

	// an out-of-range or non-numeric submission is simply wrong
	score, _ = gradeAnswers([]*types.QuizQuestion{q}, map[string]string{q.ID.String(): "b"})
	assert.Equal(t, 0, score)
	score, _ = gradeAnswers([]*types.QuizQuestion{q}, map[string]string{q.ID.String(): "01"})
	assert.Equal(t, 0, score)
}

func TestGradeAnswersDeterministic(t *testing.T) {
	questions := []*types.QuizQuestion{
		questionRow(t, "q1", []string{"a", "b"}, 0),
		questionRow(t, "q2", []string{"a", "b"}, 0),
	}
	answers := map[string]string{
		questions[0].ID.String(): "0",
		questions[1].ID.String(): "1",
	}
	first, total := gradeAnswers(questions, answers)
	for i := 0; i < 10; i++ {
		score, _ := gradeAnswers(questions, answers)
		assert.Equal(t, first, score)
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.LessOrEqual(t, first, total)
}

func TestPercentage(t *testing.T) {
	pct, err := Percentage(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, pct)

	pct, err = Percentage(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 33, pct)

	_, err = Percentage(0, 0)
	assert.True(t, errors.Is(err, ErrNoQuestions))
}

func TestFeedbackFallbackContainsScore(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	qs := &quizService{
		log:      log,
		aiClient: &fakeAI{err: ErrAIUnavailable},
	}
	msg := qs.feedbackMessage(context.Background(), "golang", 4, 5)
	assert.True(t, strings.Contains(msg, "golang"))
	assert.True(t, strings.Contains(msg, "4 out of 5"))
	assert.True(t, strings.Contains(msg, "80%"))
}

func TestFeedbackUsesModelReply(t *testing.T) {
	log, err := logger.New("development")
	require.NoError(t, err)
	qs := &quizService{
		log:      log,
		aiClient: &fakeAI{reply: "Stellar work, keep orbiting upward!"},
	}
	msg := qs.feedbackMessage(context.Background(), "golang", 5, 5)
	assert.Equal(t, "Stellar work, keep orbiting upward!", msg)
}
