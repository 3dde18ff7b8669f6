package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyai-backend/internal/catalog"
	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/repos"
	"github.com/yungbote/studyai-backend/internal/requestdata"
	"github.com/yungbote/studyai-backend/internal/types"
)

// AttemptHistoryMode selects what a re-take does to the stored
// attempt: overwrite the (user, quiz) row or append a new one.
type AttemptHistoryMode string

const (
	AttemptHistoryUpsert AttemptHistoryMode = "upsert"
	AttemptHistoryAppend AttemptHistoryMode = "append"
)

const feedbackTimeout = 15 * time.Second

const feedbackPromptTemplate = `You are an AI motivation coach. A student just took a quiz on the topic '%s'.
Their score was %d out of %d questions, which is a %d%%.

Provide a single, encouraging, and supportive message (maximum 3 sentences).
The tone must be positive, motivational, and futuristic/sleek.`

// QuestionView is the taker-facing question payload: the correct
// option index is withheld.
type QuestionView struct {
	ID      uuid.UUID `json:"id"`
	Index   int       `json:"index"`
	Text    string    `json:"text"`
	Options []string  `json:"options"`
}

type QuizView struct {
	ID        uuid.UUID      `json:"id"`
	Topic     string         `json:"topic"`
	CreatedAt time.Time      `json:"created_at"`
	Questions []QuestionView `json:"questions"`
}

// ReviewQuestion is the post-grading payload: the answer key is
// revealed for review.
type ReviewQuestion struct {
	ID                 uuid.UUID `json:"id"`
	Index              int       `json:"index"`
	Text               string    `json:"text"`
	Options            []string  `json:"options"`
	CorrectAnswerIndex int       `json:"correct_answer_index"`
}

type AttemptView struct {
	ID              uuid.UUID        `json:"id"`
	QuizID          uuid.UUID        `json:"quiz_id"`
	Topic           string           `json:"topic"`
	Score           int              `json:"score"`
	TotalQuestions  int              `json:"total_questions"`
	Percentage      int              `json:"percentage"`
	FeedbackMessage string           `json:"feedback_message"`
	AttemptedAt     time.Time        `json:"attempted_at"`
	Questions       []ReviewQuestion `json:"questions"`
}

type QuizService interface {
	// GenerateQuiz resolves the topic against the catalog and persists
	// the quiz with its questions in one transaction: a failed bulk
	// insert leaves no orphaned quiz behind.
	GenerateQuiz(ctx context.Context, topic string) (*types.Quiz, error)
	ListQuizzes(ctx context.Context) ([]*types.Quiz, error)
	GetQuiz(ctx context.Context, quizID uuid.UUID) (*QuizView, error)
	// SubmitAnswers grades the map of question id -> submitted option,
	// generates feedback and records the attempt.
	SubmitAnswers(ctx context.Context, quizID uuid.UUID, answers map[string]string) (*types.QuizAttempt, error)
	GetAttempt(ctx context.Context, attemptID uuid.UUID) (*AttemptView, error)
}

type quizService struct {
	db               *gorm.DB
	log              *logger.Logger
	topicCatalog     *catalog.Catalog
	quizRepo         repos.QuizRepo
	quizQuestionRepo repos.QuizQuestionRepo
	quizAttemptRepo  repos.QuizAttemptRepo
	aiClient         AIClient
	historyMode      AttemptHistoryMode
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	topicCatalog *catalog.Catalog,
	quizRepo repos.QuizRepo,
	quizQuestionRepo repos.QuizQuestionRepo,
	quizAttemptRepo repos.QuizAttemptRepo,
	aiClient AIClient,
	historyMode AttemptHistoryMode,
) QuizService {
	if historyMode != AttemptHistoryAppend {
		historyMode = AttemptHistoryUpsert
	}
	return &quizService{
		db:               db,
		log:              log.With("service", "QuizService"),
		topicCatalog:     topicCatalog,
		quizRepo:         quizRepo,
		quizQuestionRepo: quizQuestionRepo,
		quizAttemptRepo:  quizAttemptRepo,
		aiClient:         aiClient,
		historyMode:      historyMode,
	}
}

func (qs *quizService) GenerateQuiz(ctx context.Context, topic string) (*types.Quiz, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}

	questions, err := qs.topicCatalog.Generate(topic)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	quiz := &types.Quiz{
		ID:     uuid.New(),
		UserID: rd.UserID,
		Topic:  topic,
	}
	rows := make([]*types.QuizQuestion, 0, len(questions))
	for i, q := range questions {
		raw, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode question payload: %w", err)
		}
		rows = append(rows, &types.QuizQuestion{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Index:  i,
			Data:   datatypes.JSON(raw),
		})
	}

	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := qs.quizRepo.Create(ctx, tx, []*types.Quiz{quiz}); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		if _, err := qs.quizQuestionRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to create quiz questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (qs *quizService) ListQuizzes(ctx context.Context) ([]*types.Quiz, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return qs.quizRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

func (qs *quizService) GetQuiz(ctx context.Context, quizID uuid.UUID) (*QuizView, error) {
	quiz, err := qs.loadOwnedQuiz(ctx, nil, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := qs.quizQuestionRepo.GetByQuizIDs(ctx, nil, []uuid.UUID{quiz.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}

	view := &QuizView{ID: quiz.ID, Topic: quiz.Topic, CreatedAt: quiz.CreatedAt}
	for _, row := range questions {
		payload, err := decodeQuestionData(row)
		if err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, QuestionView{
			ID:      row.ID,
			Index:   row.Index,
			Text:    payload.Text,
			Options: payload.Options,
		})
	}
	return view, nil
}

func (qs *quizService) SubmitAnswers(ctx context.Context, quizID uuid.UUID, answers map[string]string) (*types.QuizAttempt, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	quiz, err := qs.loadOwnedQuiz(ctx, nil, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := qs.quizQuestionRepo.GetByQuizIDs(ctx, nil, []uuid.UUID{quiz.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	score, total := gradeAnswers(questions, answers)
	feedback := qs.feedbackMessage(ctx, quiz.Topic, score, total)

	attempt := &types.QuizAttempt{
		ID:              uuid.New(),
		UserID:          rd.UserID,
		QuizID:          quiz.ID,
		Score:           score,
		TotalQuestions:  total,
		FeedbackMessage: feedback,
		AttemptedAt:     time.Now(),
	}

	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if qs.historyMode == AttemptHistoryAppend {
			_, err := qs.quizAttemptRepo.Create(ctx, tx, []*types.QuizAttempt{attempt})
			return err
		}
		stored, err := qs.quizAttemptRepo.UpsertByUserAndQuiz(ctx, tx, attempt)
		if err != nil {
			return err
		}
		attempt = stored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record quiz attempt: %w", err)
	}
	return attempt, nil
}

func (qs *quizService) GetAttempt(ctx context.Context, attemptID uuid.UUID) (*AttemptView, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	attempts, err := qs.quizAttemptRepo.GetByIDs(ctx, nil, []uuid.UUID{attemptID})
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt: %w", err)
	}
	if len(attempts) == 0 || attempts[0].UserID != rd.UserID {
		return nil, ErrNotFound
	}
	attempt := attempts[0]

	quizzes, err := qs.quizRepo.GetByIDs(ctx, nil, []uuid.UUID{attempt.QuizID})
	if err != nil || len(quizzes) == 0 {
		return nil, fmt.Errorf("failed to load quiz for attempt")
	}
	questions, err := qs.quizQuestionRepo.GetByQuizIDs(ctx, nil, []uuid.UUID{attempt.QuizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}

	pct, err := Percentage(attempt.Score, attempt.TotalQuestions)
	if err != nil {
		pct = 0
	}
	view := &AttemptView{
		ID:              attempt.ID,
		QuizID:          attempt.QuizID,
		Topic:           quizzes[0].Topic,
		Score:           attempt.Score,
		TotalQuestions:  attempt.TotalQuestions,
		Percentage:      pct,
		FeedbackMessage: attempt.FeedbackMessage,
		AttemptedAt:     attempt.AttemptedAt,
	}
	for _, row := range questions {
		payload, err := decodeQuestionData(row)
		if err != nil {
			return nil, err
		}
		view.Questions = append(view.Questions, ReviewQuestion{
			ID:                 row.ID,
			Index:              row.Index,
			Text:               payload.Text,
			Options:            payload.Options,
			CorrectAnswerIndex: payload.CorrectAnswerIndex,
		})
	}
	return view, nil
}

func (qs *quizService) loadOwnedQuiz(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	quizzes, err := qs.quizRepo.GetByIDs(ctx, tx, []uuid.UUID{quizID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if len(quizzes) == 0 || quizzes[0].UserID != rd.UserID {
		return nil, ErrNotFound
	}
	return quizzes[0], nil
}

// gradeAnswers tallies submitted answers against each question's
// stored correct index. Missing answers count as incorrect; both sides
// are compared as strings because submissions arrive from a
// loosely-typed form boundary. Pure function, touches no storage.
func gradeAnswers(questions []*types.QuizQuestion, answers map[string]string) (int, int) {
	score := 0
	total := len(questions)
	for _, row := range questions {
		payload, err := decodeQuestionData(row)
		if err != nil {
			continue
		}
		submitted, ok := answers[row.ID.String()]
		if !ok {
			continue
		}
		if submitted == strconv.Itoa(payload.CorrectAnswerIndex) {
			score++
		}
	}
	return score, total
}

// Percentage computes the rounded score percentage, failing on a zero
// total so callers guard division explicitly.
func Percentage(score, total int) (int, error) {
	if total == 0 {
		return 0, ErrNoQuestions
	}
	return int(math.Round(float64(score) / float64(total) * 100)), nil
}

func (qs *quizService) feedbackMessage(ctx context.Context, topic string, score, total int) string {
	pct, err := Percentage(score, total)
	if err != nil {
		pct = 0
	}
	fallback := fmt.Sprintf("Great effort on %s! You scored %d out of %d (%d%%). Review the questions you missed and try again - you're closer than you think.", topic, score, total, pct)

	ctx, cancel := context.WithTimeout(ctx, feedbackTimeout)
	defer cancel()
	message, err := qs.aiClient.GenerateText(ctx, fmt.Sprintf(feedbackPromptTemplate, topic, score, total, pct))
	if err != nil {
		qs.log.Warn("Quiz feedback degraded to fallback", "topic", topic, "error", err)
		return fallback
	}
	return message
}

func decodeQuestionData(row *types.QuizQuestion) (catalog.Question, error) {
	var payload catalog.Question
	if err := json.Unmarshal(row.Data, &payload); err != nil {
		return payload, fmt.Errorf("corrupt question payload %s: %w", row.ID, err)
	}
	return payload, nil
}
