package gateway

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/alkime/sessions/internal/session"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of the file is inspected to detect its type.
const sniffLen = 3072

var extensionContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpga": "audio/mpeg",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".webm": "audio/webm",
}

// detectedAliases maps sniffed types onto the names the server accepts.
var detectedAliases = map[string]string{
	"audio/x-m4a":  "audio/mp4",
	"video/mp4":    "audio/mp4",
	"audio/x-flac": "audio/flac",
	"video/webm":   "audio/webm",
	"audio/x-aac":  "audio/aac",
}

// DetectContentType picks the content type to declare for an upload. The
// file header wins when it sniffs as accepted audio; otherwise the extension
// decides.
func DetectContentType(name string, head []byte) string {
	if len(head) > 0 {
		detected := mimetype.Detect(head).String()
		if alias, ok := detectedAliases[detected]; ok {
			detected = alias
		}

		if session.AudioContentTypes[detected] {
			return detected
		}
	}

	if ct, ok := extensionContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}

	return "application/octet-stream"
}

// Upload sends an audio file as multipart field "file" and returns the
// created session.
func (c *Client) Upload(ctx context.Context, name string, body io.Reader) (session.Session, error) {
	reader := bufio.NewReaderSize(body, sniffLen)
	// Peek reports io.EOF for files shorter than sniffLen but still returns the bytes read.
	head, _ := reader.Peek(sniffLen)

	contentType := DetectContentType(name, head)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return session.Session{}, &Error{Op: OpUpload, Err: fmt.Errorf("create form file: %w", err)}
	}

	if _, err := io.Copy(part, reader); err != nil {
		return session.Session{}, &Error{Op: OpUpload, Err: fmt.Errorf("copy file to form: %w", err)}
	}

	if err := writer.Close(); err != nil {
		return session.Session{}, &Error{Op: OpUpload, Err: fmt.Errorf("close multipart writer: %w", err)}
	}

	resp, err := c.do(ctx, OpUpload, http.MethodPost, "/sessions/upload", &buf, writer.FormDataContentType())
	if err != nil {
		return session.Session{}, err
	}

	uploaded := parseSession(resp)
	if uploaded.ContentType == "" {
		uploaded.ContentType = contentType
	}
	if uploaded.Title == "" {
		uploaded.Title = filepath.Base(name)
	}

	return uploaded, nil
}
