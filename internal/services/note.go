package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/repos"
	"github.com/yungbote/studyai-backend/internal/requestdata"
	"github.com/yungbote/studyai-backend/internal/types"
)

// Extraction must yield at least this much text before a summary is
// attempted; shorter extractions are treated as failed (encrypted or
// image-only PDFs usually land here).
const minNoteTextLen = 100

// maxSummaryInputLen caps how much extracted text goes into the
// summarization prompt.
const maxSummaryInputLen = 10000

const extractionFailedSummary = "ERROR: Could not extract sufficient text from PDF. File may be encrypted or empty."

const summaryUnavailableFallback = "AI service is unavailable right now. Your notes were saved; re-open this note later to retry the summary."

const summarizePromptTemplate = `You are an expert educational assistant. Your task is to summarize the following notes.
The notes are titled: '%s'.

1. Provide a detailed, easy-to-understand summary.
2. Conclude the summary with a specific section titled "Key Concepts to Focus On" where you list 3 to 5 core ideas from the text that the student should master.

--- Notes Text ---
%s
--- End Notes Text ---`

type UploadNoteInput struct {
	Title        string
	OriginalName string
	MimeType     string
	Data         []byte
}

type NoteService interface {
	// UploadNote stores the file, extracts its text and attaches an AI
	// summary (or a fixed error string when extraction/AI fail). The
	// returned note always exists even when summarization degraded.
	UploadNote(ctx context.Context, input UploadNoteInput) (*types.Note, error)
	ListNotes(ctx context.Context) ([]*types.Note, error)
	GetNote(ctx context.Context, noteID uuid.UUID) (*types.Note, error)
}

type noteService struct {
	db            *gorm.DB
	log           *logger.Logger
	noteRepo      repos.NoteRepo
	bucketService BucketService
	aiClient      AIClient
}

func NewNoteService(db *gorm.DB, log *logger.Logger, noteRepo repos.NoteRepo, bucketService BucketService, aiClient AIClient) NoteService {
	return &noteService{
		db:            db,
		log:           log.With("service", "NoteService"),
		noteRepo:      noteRepo,
		bucketService: bucketService,
		aiClient:      aiClient,
	}
}

func (ns *noteService) UploadNote(ctx context.Context, input UploadNoteInput) (*types.Note, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if input.Title == "" {
		return nil, fmt.Errorf("note title is required")
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("uploaded file is empty")
	}

	note := &types.Note{
		ID:           uuid.New(),
		UserID:       rd.UserID,
		Title:        input.Title,
		OriginalName: input.OriginalName,
		MimeType:     input.MimeType,
		SizeBytes:    int64(len(input.Data)),
		Status:       types.NoteStatusUploaded,
	}
	note.StorageKey = fmt.Sprintf("user_notes/pdfs/%s/%s/%s", rd.UserID.String(), note.ID.String(), sanitizeFileName(input.OriginalName))

	err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ns.noteRepo.Create(ctx, tx, []*types.Note{note}); err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		if ns.bucketService != nil {
			if err := ns.bucketService.UploadFile(ctx, note.StorageKey, bytes.NewReader(input.Data)); err != nil {
				return fmt.Errorf("failed to store note file: %w", err)
			}
			note.FileURL = ns.bucketService.GetPublicURL(note.StorageKey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ns.summarize(ctx, note, input)

	if err := ns.noteRepo.Update(ctx, nil, note); err != nil {
		return nil, fmt.Errorf("failed to save note summary: %w", err)
	}
	return note, nil
}

// summarize mutates note.Summary/Status in place. Failures never
// propagate: per the error policy every degradation lands as a fixed
// summary string instead.
func (ns *noteService) summarize(ctx context.Context, note *types.Note, input UploadNoteInput) {
	text, err := ExtractNoteText(input.OriginalName, input.MimeType, input.Data)
	if err != nil || len(text) < minNoteTextLen {
		if err != nil {
			ns.log.Warn("Note text extraction failed", "note_id", note.ID, "error", err)
		}
		note.Summary = extractionFailedSummary
		note.Status = types.NoteStatusFailed
		return
	}

	text = truncateRuneSafe(text, maxSummaryInputLen)
	prompt := fmt.Sprintf(summarizePromptTemplate, note.Title, text)
	summary, err := ns.aiClient.GenerateText(ctx, prompt)
	if err != nil {
		ns.log.Warn("Note summarization degraded to fallback", "note_id", note.ID, "error", err)
		note.Summary = summaryUnavailableFallback
		note.Status = types.NoteStatusFailed
		return
	}
	note.Summary = summary
	note.Status = types.NoteStatusSummarized
}

// truncateRuneSafe cuts s to at most max bytes, backing up so a
// multi-byte rune is never split.
func truncateRuneSafe(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// sanitizeFileName reduces a client-supplied name to a single safe
// object-key segment: no path separators, no dot-dot, no control or
// shell-hostile characters.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "upload"
	}
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func (ns *noteService) ListNotes(ctx context.Context) ([]*types.Note, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return ns.noteRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
}

func (ns *noteService) GetNote(ctx context.Context, noteID uuid.UUID) (*types.Note, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	notes, err := ns.noteRepo.GetByIDs(ctx, nil, []uuid.UUID{noteID})
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	// Wrong owner reads the same as missing.
	if len(notes) == 0 || notes[0].UserID != rd.UserID {
		return nil, ErrNotFound
	}
	return notes[0], nil
}
