package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/services"
)

// maxNoteUploadBytes caps the multipart body read into memory.
const maxNoteUploadBytes = 20 << 20

type NoteHandler struct {
	log     *logger.Logger
	noteSvc services.NoteService
}

func NewNoteHandler(log *logger.Logger, noteSvc services.NoteService) *NoteHandler {
	return &NoteHandler{
		log:     log.With("handler", "NoteHandler"),
		noteSvc: noteSvc,
	}
}

// POST /api/notes
// Multipart upload: "file" holds the document, "title" names the note.
func (nh *NoteHandler) UploadNote(c *gin.Context) {
	title := c.PostForm("title")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxNoteUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload limit"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxNoteUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	if len(data) > maxNoteUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload limit"})
		return
	}

	note, err := nh.noteSvc.UploadNote(c.Request.Context(), services.UploadNoteInput{
		Title:        title,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Data:         data,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, note)
}

// GET /api/notes
func (nh *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := nh.noteSvc.ListNotes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GET /api/notes/:id
func (nh *NoteHandler) GetNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return
	}
	note, err := nh.noteSvc.GetNote(c.Request.Context(), noteID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load note"})
		return
	}
	c.JSON(http.StatusOK, note)
}
