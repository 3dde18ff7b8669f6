package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/studyai-backend/internal/repos/testutil"
	"github.com/yungbote/studyai-backend/internal/types"
)

func TestNoteRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewNoteRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "noterepo@example.com")
	n := &types.Note{
		ID:           uuid.New(),
		UserID:       u.ID,
		Title:        "biology notes",
		OriginalName: "biology.pdf",
		MimeType:     "application/pdf",
		SizeBytes:    1024,
		StorageKey:   "notes/" + u.ID.String() + "/biology.pdf",
		Status:       types.NoteStatusUploaded,
	}
	if _, err := repo.Create(ctx, tx, []*types.Note{n}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{n.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}

	n.Summary = "summary text"
	n.Status = types.NoteStatusSummarized
	if err := repo.Update(ctx, tx, n); err != nil {
		t.Fatalf("Update: %v", err)
	}
	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{n.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs after update: err=%v len=%d", err, len(rows))
	}
	if rows[0].Summary != "summary text" || rows[0].Status != types.NoteStatusSummarized {
		t.Fatalf("update not persisted: summary=%q status=%q", rows[0].Summary, rows[0].Status)
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{n.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{n.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}
