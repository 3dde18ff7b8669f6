package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/studyai-backend/internal/repos/testutil"
	"github.com/yungbote/studyai-backend/internal/types"
)

func questionData(tb testing.TB, text string, correct int) datatypes.JSON {
	tb.Helper()
	raw, err := json.Marshal(map[string]any{
		"text":                 text,
		"options":              []string{"a", "b", "c"},
		"correct_answer_index": correct,
	})
	if err != nil {
		tb.Fatalf("marshal question data: %v", err)
	}
	return datatypes.JSON(raw)
}

func TestQuizRepoWithQuestions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	quizRepo := NewQuizRepo(db, testutil.Logger(t))
	questionRepo := NewQuizQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "quizrepo@example.com")
	q := &types.Quiz{ID: uuid.New(), UserID: u.ID, Topic: "machine learning"}
	if _, err := quizRepo.Create(ctx, tx, []*types.Quiz{q}); err != nil {
		t.Fatalf("Create quiz: %v", err)
	}

	// Insert out of order; reads must come back ordered by ordinal.
	var questions []*types.QuizQuestion
	for _, idx := range []int{2, 0, 1} {
		questions = append(questions, &types.QuizQuestion{
			ID:     uuid.New(),
			QuizID: q.ID,
			Index:  idx,
			Data:   questionData(t, fmt.Sprintf("question %d", idx), 1),
		})
	}
	if _, err := questionRepo.Create(ctx, tx, questions); err != nil {
		t.Fatalf("Create questions: %v", err)
	}

	rows, err := questionRepo.GetByQuizIDs(ctx, tx, []uuid.UUID{q.ID})
	if err != nil {
		t.Fatalf("GetByQuizIDs: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("GetByQuizIDs len=%d, want 3", len(rows))
	}
	for i, row := range rows {
		if row.Index != i {
			t.Fatalf("question %d has index %d, want %d", i, row.Index, i)
		}
	}

	if rows, err := quizRepo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
}

func TestQuizAttemptUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	attemptRepo := NewQuizAttemptRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "attemptrepo@example.com")
	q := testutil.SeedQuiz(t, ctx, tx, u.ID, "deep learning")

	first := &types.QuizAttempt{
		ID:              uuid.New(),
		UserID:          u.ID,
		QuizID:          q.ID,
		Score:           3,
		TotalQuestions:  5,
		FeedbackMessage: "keep going",
	}
	if _, err := attemptRepo.UpsertByUserAndQuiz(ctx, tx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.QuizAttempt{
		ID:              uuid.New(),
		UserID:          u.ID,
		QuizID:          q.ID,
		Score:           5,
		TotalQuestions:  5,
		FeedbackMessage: "perfect score",
	}
	stored, err := attemptRepo.UpsertByUserAndQuiz(ctx, tx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := attemptRepo.GetByUserAndQuiz(ctx, tx, u.ID, q.ID)
	if err != nil {
		t.Fatalf("GetByUserAndQuiz: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("attempt rows=%d, want exactly 1 after two upserts", len(rows))
	}
	if rows[0].Score != 5 || rows[0].FeedbackMessage != "perfect score" {
		t.Fatalf("last write did not win: score=%d feedback=%q", rows[0].Score, rows[0].FeedbackMessage)
	}
	if stored.ID != rows[0].ID {
		t.Fatalf("upsert returned id %s, stored id %s", stored.ID, rows[0].ID)
	}

	// Append mode is plain Create: a second row is allowed.
	third := &types.QuizAttempt{
		ID:             uuid.New(),
		UserID:         u.ID,
		QuizID:         q.ID,
		Score:          4,
		TotalQuestions: 5,
	}
	if _, err := attemptRepo.Create(ctx, tx, []*types.QuizAttempt{third}); err != nil {
		t.Fatalf("append create: %v", err)
	}
	rows, err = attemptRepo.GetByUserAndQuiz(ctx, tx, u.ID, q.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("after append: err=%v len=%d, want 2", err, len(rows))
	}
}
