// Package format converts raw server fields into stable display strings.
//
// Every function is total: bad input yields a placeholder, never a panic or error.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alkime/sessions/internal/session"
	"github.com/alkime/sessions/pkg/collections"
)

// Placeholder is shown for values that cannot be formatted.
const Placeholder = "—"

// DateLayout is the display layout for session dates.
const DateLayout = "Jan 2, 2006"

// maxCentiseconds is the largest timecode shown, "99999:59.99". Longer
// durations saturate there.
const maxCentiseconds = 99999*6000 + 5999

var (
	speakerTagRegexp   = regexp.MustCompile(`(?i)^speaker_`)
	doubleSpeakerRegex = regexp.MustCompile(`(?i)^speaker\s+speaker(\s+|$)`)
	whitespaceRegexp   = regexp.MustCompile(`\s+`)
)

// Timecode renders seconds as "MM:SS.ss". Negative and non-finite input
// renders as "00:00.00". Minutes are not wrapped at 60; finite values past
// 99999:59.99 saturate there.
func Timecode(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00.00"
	}

	cs := math.Round(seconds * 100)
	if cs > maxCentiseconds {
		cs = maxCentiseconds
	}

	total := int64(cs)
	minutes := total / 6000
	rem := total % 6000

	return fmt.Sprintf("%02d:%02d.%02d", minutes, rem/100, rem%100)
}

// Speaker renders a diarization label for display.
// Example: "SPEAKER_01" -> "Speaker 01", "" -> "Speaker".
func Speaker(raw string) string {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "Speaker"
	}

	label = speakerTagRegexp.ReplaceAllString(label, "Speaker ")
	label = strings.ReplaceAll(label, "_", " ")
	label = strings.TrimSpace(whitespaceRegexp.ReplaceAllString(label, " "))

	// Both the diarizer and client defaults may prefix "Speaker".
	label = strings.TrimSpace(doubleSpeakerRegex.ReplaceAllString(label, "Speaker "))

	if strings.EqualFold(label, "speaker") {
		return "Speaker"
	}

	return label
}

// Duration renders seconds as "<n>.<2dp>s", or the placeholder when absent or
// not finite.
func Duration(seconds *float64) string {
	if seconds == nil || math.IsNaN(*seconds) || math.IsInf(*seconds, 0) {
		return Placeholder
	}

	return fmt.Sprintf("%.2fs", *seconds)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// SessionDate renders an ISO-8601 date or a numeric epoch as a display date.
// Epoch values above 1e12 are taken as milliseconds.
func SessionDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Placeholder
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout)
		}
	}

	epoch, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(epoch) || math.IsInf(epoch, 0) || epoch < 0 {
		return Placeholder
	}

	if epoch > 1e12 {
		epoch /= 1000
	}

	sec, frac := math.Modf(epoch)

	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(DateLayout)
}

// SegmentLine renders one segment as "<start>-<end> : [speaker ]text".
// Line breaks inside the text are folded to spaces so each segment stays on
// one line.
func SegmentLine(seg session.Segment) string {
	prefix := ""
	if strings.TrimSpace(seg.Speaker) != "" {
		prefix = Speaker(seg.Speaker) + " "
	}

	return fmt.Sprintf("%s-%s : %s%s",
		Timecode(seg.Timestamp.Start),
		Timecode(seg.Timestamp.End),
		prefix,
		strings.TrimSpace(whitespaceRegexp.ReplaceAllString(seg.Text, " ")),
	)
}

// Segments flattens a transcript into one line per segment, in input order.
// An empty transcript yields "".
func Segments(segments []session.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	return strings.Join(collections.Apply(segments, SegmentLine), "\n")
}
