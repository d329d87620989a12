package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alkime/sessions/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	notesModel      = "fake-notes"
	notesVersion    = "v1"
)

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, "Field required: file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !session.AudioContentTypes[contentType] {
		abortDetail(c, http.StatusBadRequest, "Unsupported audio type")
		return
	}

	if header.Size == 0 {
		abortDetail(c, http.StatusBadRequest, "Empty file")
		return
	}

	title := header.Filename
	if title == "" {
		title = "Counseling Session"
	}

	rec := s.store.create(title, contentType, header.Size)
	s.logger.Info("Session uploaded", "session_id", rec.ID, "file_key", rec.FileKey, "size", rec.Size)

	c.JSON(http.StatusOK, gin.H{
		"session_id":   rec.ID,
		"filename":     rec.Filename,
		"file_key":     rec.FileKey,
		"path":         "uploads/" + rec.Filename,
		"content_type": rec.ContentType,
		"title":        rec.Title,
	})
}

func (s *Server) handleTranscribe(c *gin.Context) {
	var body gin.H

	err := s.store.update(c.Param("id"), func(rec *sessionRecord) error {
		rec.Segments = cannedSegments(rec, false)
		rec.Text = joinText(rec.Segments)
		rec.Status = "transcribed"

		body = transcriptBody(rec, rec.Text, rec.Segments)

		return nil
	})
	if err != nil {
		abortDetail(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, body)
}

func (s *Server) handleDiarize(c *gin.Context) {
	var body gin.H

	err := s.store.update(c.Param("id"), func(rec *sessionRecord) error {
		rec.Diarized = cannedSegments(rec, true)
		rec.Segments = rec.Diarized
		if rec.Text == "" {
			rec.Text = joinText(rec.Diarized)
		}
		rec.Status = "transcribed"

		body = transcriptBody(rec, joinText(rec.Diarized), rec.Diarized)

		return nil
	})
	if err != nil {
		abortDetail(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, body)
}

var errNoTranscript = errors.New("Transcript not available") //nolint:stylecheck,revive // user-facing detail

func (s *Server) handleGenerateNotes(c *gin.Context) {
	var body gin.H

	err := s.store.update(c.Param("id"), func(rec *sessionRecord) error {
		if !rec.hasTranscript() {
			return errNoTranscript
		}

		rec.Notes = cannedNotes(rec)
		rec.Status = "noted"
		body = notesBody(rec)

		return nil
	})

	switch {
	case errors.Is(err, errNoTranscript):
		abortDetail(c, http.StatusBadRequest, err.Error())
	case err != nil:
		abortDetail(c, http.StatusNotFound, err.Error())
	default:
		c.JSON(http.StatusOK, body)
	}
}

var errNoNotes = errors.New("Session notes not found") //nolint:stylecheck,revive // user-facing detail

func (s *Server) handleGetNotes(c *gin.Context) {
	var body gin.H

	err := s.store.update(c.Param("id"), func(rec *sessionRecord) error {
		if rec.Notes == nil {
			return errNoNotes
		}

		body = notesBody(rec)

		return nil
	})
	if err != nil {
		abortDetail(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, body)
}

func (s *Server) handleProcessLarge(c *gin.Context) {
	var body gin.H

	err := s.store.update(c.Param("id"), func(rec *sessionRecord) error {
		rec.Status = "processing"
		body = gin.H{
			"session_id": rec.ID,
			"task_id":    uuid.NewString(),
			"status":     rec.Status,
		}

		return nil
	})
	if err != nil {
		abortDetail(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusAccepted, body)
}

func (s *Server) handleListSessions(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", defaultPageSize)

	page = max(page, 1)
	pageSize = min(max(pageSize, 1), maxPageSize)

	var body gin.H

	s.store.page(page, pageSize, func(total int, records []*sessionRecord) {
		items := make([]gin.H, 0, len(records))
		for _, rec := range records {
			items = append(items, gin.H{
				"session_id":           rec.ID,
				"title":                rec.Title,
				"status":               rec.Status,
				"session_date":         isoDate(rec.SessionDate),
				"file_key":             rec.FileKey,
				"content_type":         rec.ContentType,
				"duration_seconds":     rec.durationSeconds(),
				"transcript_available": rec.hasTranscript(),
				"notes_available":      rec.Notes != nil,
			})
		}

		body = gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
			"items":     items,
		}
	})

	c.JSON(http.StatusOK, body)
}

func (s *Server) handleGetTranscript(c *gin.Context) {
	var body gin.H

	err := s.store.byFileKey(c.Param("fileKey"), func(rec *sessionRecord) error {
		if !rec.hasTranscript() {
			return errTranscriptNotFound
		}

		body = gin.H{
			"file_key": rec.FileKey,
			"text":     rec.Text,
			"segments": rec.Segments,
		}

		return nil
	})
	if err != nil {
		abortDetail(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, body)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func isoDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.Format("2006-01-02T15:04:05.999999")
}

func transcriptBody(rec *sessionRecord, text string, segments []segmentJSON) gin.H {
	return gin.H{
		"session_id": rec.ID,
		"file_key":   rec.FileKey,
		"text":       text,
		"segments":   segments,
	}
}

func notesBody(rec *sessionRecord) gin.H {
	return gin.H{
		"session_id":    rec.ID,
		"note_markdown": rec.Notes.Markdown,
		"summary":       rec.Notes.Summary,
		"key_points":    rec.Notes.KeyPoints,
		"action_items":  rec.Notes.ActionItems,
		"risk_flags":    rec.Notes.RiskFlags,
		"model":         rec.Notes.Model,
		"version":       rec.Notes.Version,
	}
}

// cannedSegments stands in for transcription output. Diarized segments carry
// SPEAKER_<n> labels the way the diarization backend emits them.
func cannedSegments(rec *sessionRecord, diarized bool) []segmentJSON {
	lines := []string{
		"Thanks for coming in today.",
		fmt.Sprintf("I wanted to talk about %s.", strings.TrimSuffix(rec.Title, extension(rec.Title))),
		"Let's start with how the week went.",
	}

	segments := make([]segmentJSON, 0, len(lines))
	for i, line := range lines {
		seg := segmentJSON{
			Timestamp: timestampJSON{Start: float64(i) * 4.5, End: float64(i)*4.5 + 4.25},
			Text:      line,
		}
		if diarized {
			speaker := fmt.Sprintf("SPEAKER_%02d", i%2)
			seg.Speaker = &speaker
		}
		segments = append(segments, seg)
	}

	return segments
}

func cannedNotes(rec *sessionRecord) *noteRecord {
	segments := rec.Diarized
	if segments == nil {
		segments = rec.Segments
	}

	summary := fmt.Sprintf("Session %q covered %d exchanges.", rec.Title, len(segments))
	keyPoints := make([]string, 0, len(segments))
	for _, seg := range segments {
		keyPoints = append(keyPoints, seg.Text)
	}

	var md strings.Builder
	md.WriteString("# Session Notes\n\n## Summary\n\n")
	md.WriteString(summary)
	md.WriteString("\n\n## Key Points\n\n")
	for _, point := range keyPoints {
		md.WriteString("- " + point + "\n")
	}

	return &noteRecord{
		Markdown:    md.String(),
		Summary:     summary,
		KeyPoints:   keyPoints,
		ActionItems: []string{"Schedule a follow-up session"},
		RiskFlags:   []string{},
		Model:       notesModel,
		Version:     notesVersion,
	}
}

func joinText(segments []segmentJSON) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}

	return strings.Join(parts, " ")
}
