// Package session defines the records exchanged with the processing server.
package session

import "time"

// Session identifies one uploaded recording and its processing metadata.
// Values are produced by the server and never mutated by the client.
type Session struct {
	ID                  string
	FileKey             string
	Title               string
	SessionDate         string
	ContentType         string
	DurationSeconds     *float64
	Status              string
	NotesAvailable      bool
	TranscriptAvailable bool
}

// Timestamp is the start/end offset of a segment, in seconds.
type Timestamp struct {
	Start float64
	End   float64
}

// Segment is one chronological piece of a transcript. Speaker is empty when
// the upstream did not label it.
type Segment struct {
	Speaker   string
	Text      string
	Timestamp Timestamp
}

// CatalogPage is one page of the session catalog.
type CatalogPage struct {
	Items    []Session
	Page     int
	PageSize int
	Total    int
}

// PageCount returns ceil(total/pageSize), never less than 1.
func (p CatalogPage) PageCount() int {
	return PageCount(p.Total, p.PageSize)
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}

	return (total + pageSize - 1) / pageSize
}

// Notes is a generated session note.
type Notes struct {
	SessionID   string
	Markdown    string
	Summary     string
	KeyPoints   []string
	ActionItems []string
	RiskFlags   []string
	Model       string
	Version     string
}

// Ack acknowledges that chunked processing was queued out of band.
type Ack struct {
	SessionID string
	TaskID    string
	Status    string
}

// Output is a stage result kept locally after it completed.
type Output struct {
	SessionID string
	Stage     string
	Content   string
	CreatedAt time.Time
}

// AudioContentTypes lists the upload content types the server accepts.
var AudioContentTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/flac":  true,
	"audio/aac":   true,
	"audio/ogg":   true,
	"audio/webm":  true,
}
