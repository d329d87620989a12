package server

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Error texts double as the detail shown to users.
//
//nolint:stylecheck,revive // capitalised user-facing messages
var (
	errSessionNotFound    = errors.New("Session not found")
	errTranscriptNotFound = errors.New("Transcript not found")
)

// segmentJSON is the segment shape the processing API emits.
type segmentJSON struct {
	Speaker   *string       `json:"speaker"`
	Timestamp timestampJSON `json:"timestamp"`
	Text      string        `json:"text"`
}

type timestampJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type noteRecord struct {
	Markdown    string
	Summary     string
	KeyPoints   []string
	ActionItems []string
	RiskFlags   []string
	Model       string
	Version     string
}

type sessionRecord struct {
	ID          int
	Title       string
	Status      string
	FileKey     string
	Filename    string
	ContentType string
	Size        int64
	SessionDate *time.Time
	CreatedAt   time.Time

	Text     string
	Segments []segmentJSON
	Diarized []segmentJSON
	Notes    *noteRecord
}

func (r *sessionRecord) hasTranscript() bool {
	return r.Segments != nil || r.Diarized != nil
}

// durationSeconds is the largest segment end, or nil without a transcript.
func (r *sessionRecord) durationSeconds() *float64 {
	var maxEnd *float64
	for _, seg := range r.Segments {
		end := seg.Timestamp.End
		if maxEnd == nil || end > *maxEnd {
			maxEnd = &end
		}
	}

	return maxEnd
}

// memoryStore holds sessions newest-last.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int
	sessions []*sessionRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nextID: 1}
}

func (m *memoryStore) create(filename, contentType string, size int64) *sessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	fileKey := strings.ReplaceAll(uuid.NewString(), "-", "")

	rec := &sessionRecord{
		ID:          m.nextID,
		Title:       filename,
		Status:      "uploaded",
		FileKey:     fileKey,
		Filename:    fileKey + extension(filename),
		ContentType: contentType,
		Size:        size,
		SessionDate: &now,
		CreatedAt:   now,
	}
	m.nextID++
	m.sessions = append(m.sessions, rec)

	return rec
}

// update runs fn on the session with the given id under the store lock.
func (m *memoryStore) update(rawID string, fn func(*sessionRecord) error) error {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return errSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.sessions {
		if rec.ID == id {
			return fn(rec)
		}
	}

	return errSessionNotFound
}

func (m *memoryStore) byFileKey(fileKey string, fn func(*sessionRecord) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.sessions {
		if rec.FileKey == fileKey {
			return fn(rec)
		}
	}

	return errTranscriptNotFound
}

// page returns sessions newest-first with the same clamping as the real API.
func (m *memoryStore) page(page, pageSize int, fn func(total int, items []*sessionRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := len(m.sessions)
	offset := (page - 1) * pageSize

	var items []*sessionRecord
	for i := total - 1 - offset; i >= 0 && len(items) < pageSize; i-- {
		items = append(items, m.sessions[i])
	}

	fn(total, items)
}

func extension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[idx:]
	}

	return ""
}
