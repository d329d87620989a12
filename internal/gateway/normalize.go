package gateway

import (
	"strings"

	"github.com/alkime/sessions/internal/session"
	"github.com/tidwall/gjson"
)

// errorDetail extracts the human-readable reason from an error body. FastAPI
// validation errors carry a list of {msg} objects instead of a string.
func errorDetail(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}

	detail := gjson.GetBytes(data, "detail")
	switch {
	case detail.Type == gjson.String:
		return strings.TrimSpace(detail.String())
	case detail.IsArray():
		var msgs []string
		for _, item := range detail.Array() {
			if msg := firstString(item, "msg", "message"); msg != "" {
				msgs = append(msgs, msg)
			}
		}

		return strings.Join(msgs, "; ")
	case detail.IsObject():
		return firstString(detail, "msg", "message")
	default:
		return ""
	}
}

// idString renders an identifier that may arrive as a JSON number or string.
func idString(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		return r.Raw
	case gjson.String:
		return strings.TrimSpace(r.String())
	default:
		return ""
	}
}

// firstString returns the first non-empty string among the given paths.
func firstString(r gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := r.Get(path); v.Exists() && v.Type != gjson.Null {
			if s := idString(v); s != "" {
				return s
			}
		}
	}

	return ""
}

func optionalFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}

	f := r.Float()

	return &f
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}

	var out []string
	for _, item := range r.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}

	return out
}

func parseSession(r gjson.Result) session.Session {
	return session.Session{
		ID:                  firstString(r, "session_id", "sessionId", "id"),
		FileKey:             firstString(r, "file_key", "fileKey"),
		Title:               firstString(r, "title", "original_filename", "filename"),
		SessionDate:         firstString(r, "session_date", "sessionDate"),
		ContentType:         firstString(r, "content_type", "contentType"),
		DurationSeconds:     optionalFloat(r.Get("duration_seconds")),
		Status:              firstString(r, "status"),
		NotesAvailable:      r.Get("notes_available").Bool(),
		TranscriptAvailable: r.Get("transcript_available").Bool(),
	}
}

// parseSegments accepts a bare segment array or an object carrying
// diarized_segments or segments. A body with only transcript text becomes a
// single unlabelled segment.
func parseSegments(r gjson.Result) []session.Segment {
	list := r
	if !r.IsArray() {
		list = gjson.Result{}
		for _, path := range []string{"diarized_segments", "segments"} {
			if candidate := r.Get(path); candidate.IsArray() && len(candidate.Array()) > 0 {
				list = candidate
				break
			}
		}
	}

	if list.IsArray() {
		items := list.Array()
		segments := make([]session.Segment, 0, len(items))
		for _, item := range items {
			segments = append(segments, parseSegment(item))
		}

		return segments
	}

	if text := firstString(r, "diarized_text", "text", "transcript"); text != "" {
		return []session.Segment{{Text: text}}
	}

	return []session.Segment{}
}

func parseSegment(r gjson.Result) session.Segment {
	seg := session.Segment{
		Speaker: firstString(r, "speaker"),
		Text:    strings.TrimSpace(firstString(r, "text", "transcript")),
	}

	ts := r.Get("timestamp")
	switch {
	case ts.IsArray():
		bounds := ts.Array()
		if len(bounds) > 0 {
			seg.Timestamp.Start = bounds[0].Float()
		}
		if len(bounds) > 1 {
			seg.Timestamp.End = bounds[1].Float()
		}
	case ts.IsObject():
		seg.Timestamp.Start = ts.Get("start").Float()
		seg.Timestamp.End = ts.Get("end").Float()
	default:
		seg.Timestamp.Start = r.Get("start").Float()
		seg.Timestamp.End = r.Get("end").Float()
	}

	return seg
}

func parseNotes(r gjson.Result, sessionID string) session.Notes {
	notes := session.Notes{
		SessionID:   firstString(r, "session_id"),
		Markdown:    firstString(r, "note_markdown", "markdown", "notes"),
		Summary:     firstString(r, "summary"),
		KeyPoints:   stringList(r.Get("key_points")),
		ActionItems: stringList(r.Get("action_items")),
		RiskFlags:   stringList(r.Get("risk_flags")),
		Model:       firstString(r, "model"),
		Version:     firstString(r, "version"),
	}

	if notes.SessionID == "" {
		notes.SessionID = sessionID
	}

	return notes
}

func parseAck(r gjson.Result, sessionID string) session.Ack {
	ack := session.Ack{
		SessionID: firstString(r, "session_id"),
		TaskID:    firstString(r, "task_id"),
		Status:    firstString(r, "status"),
	}

	if ack.SessionID == "" {
		ack.SessionID = sessionID
	}

	return ack
}

// parsePage falls back to the requested page and size when the server omits them.
func parsePage(r gjson.Result, page, pageSize int) session.CatalogPage {
	out := session.CatalogPage{
		Page:     page,
		PageSize: pageSize,
		Total:    int(r.Get("total").Int()),
	}

	if v := r.Get("page"); v.Type == gjson.Number {
		out.Page = int(v.Int())
	}
	if v := r.Get("page_size"); v.Type == gjson.Number {
		out.PageSize = int(v.Int())
	}

	items := r.Get("items").Array()
	out.Items = make([]session.Session, 0, len(items))
	for _, item := range items {
		out.Items = append(out.Items, parseSession(item))
	}

	return out
}
