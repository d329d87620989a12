package format_test

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/alkime/sessions/internal/format"
	"github.com/alkime/sessions/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimecode(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "00:00.00"},
		{name: "fractional", seconds: 5.5, expected: "00:05.50"},
		{name: "minutes", seconds: 65.25, expected: "01:05.25"},
		{name: "rounds up into next minute", seconds: 59.999, expected: "01:00.00"},
		{name: "minutes exceed an hour", seconds: 3725, expected: "62:05.00"},
		{name: "negative clamps", seconds: -5, expected: "00:00.00"},
		{name: "nan clamps", seconds: math.NaN(), expected: "00:00.00"},
		{name: "infinity clamps", seconds: math.Inf(1), expected: "00:00.00"},
		{name: "largest shown", seconds: 5999999.99, expected: "99999:59.99"},
		{name: "huge saturates", seconds: 1e300, expected: "99999:59.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.Timecode(tt.seconds))
		})
	}
}

func TestTimecode_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^\d{2,}:\d{2}\.\d{2}$`)

	for _, seconds := range []float64{0, 0.004, 1, 9.99, 59.5, 61, 599.995, 6000, 123456.789, 1e15} {
		assert.Regexp(t, shape, format.Timecode(seconds), "seconds=%v", seconds)
	}
}

func TestSpeaker(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty", raw: "", expected: "Speaker"},
		{name: "whitespace", raw: "   ", expected: "Speaker"},
		{name: "diarization tag", raw: "SPEAKER_01", expected: "Speaker 01"},
		{name: "letter tag", raw: "SPEAKER_A", expected: "Speaker A"},
		{name: "double prefix collapses", raw: "Speaker Speaker_2", expected: "Speaker 2"},
		{name: "lowercase double prefix", raw: "speaker_speaker_3", expected: "Speaker 3"},
		{name: "underscores become spaces", raw: "dr_jane_doe", expected: "dr jane doe"},
		{name: "plain name", raw: "Alice", expected: "Alice"},
		{name: "bare prefix", raw: "SPEAKER_", expected: "Speaker"},
		{name: "doubled prefix alone", raw: "Speaker_Speaker", expected: "Speaker"},
		{name: "lowercase doubled prefix alone", raw: "speaker speaker", expected: "Speaker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.Speaker(tt.raw))
		})
	}
}

func TestDuration(t *testing.T) {
	value := func(f float64) *float64 { return &f }

	assert.Equal(t, "12.35s", format.Duration(value(12.345)))
	assert.Equal(t, "0.00s", format.Duration(value(0)))
	assert.Equal(t, format.Placeholder, format.Duration(nil))
	assert.Equal(t, format.Placeholder, format.Duration(value(math.NaN())))
	assert.Equal(t, format.Placeholder, format.Duration(value(math.Inf(-1))))
}

func TestSessionDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "rfc3339", raw: "2024-03-05T10:30:00Z", expected: "Mar 5, 2024"},
		{name: "naive iso", raw: "2024-03-05T10:30:00", expected: "Mar 5, 2024"},
		{name: "naive iso with micros", raw: "2024-03-05T10:30:00.123456", expected: "Mar 5, 2024"},
		{name: "date only", raw: "2024-03-05", expected: "Mar 5, 2024"},
		{name: "epoch seconds", raw: "1709634600", expected: "Mar 5, 2024"},
		{name: "epoch millis", raw: "1709634600000", expected: "Mar 5, 2024"},
		{name: "empty", raw: "", expected: format.Placeholder},
		{name: "garbage", raw: "yesterday", expected: format.Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.SessionDate(tt.raw))
		})
	}
}

func TestSegments(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", format.Segments(nil))
		assert.Equal(t, "", format.Segments([]session.Segment{}))
	})

	t.Run("one line per segment in order", func(t *testing.T) {
		segments := []session.Segment{
			{Speaker: "SPEAKER_00", Text: "Hello there.", Timestamp: session.Timestamp{Start: 0, End: 1.5}},
			{Text: "No speaker here.", Timestamp: session.Timestamp{Start: 1.5, End: 3}},
			{Speaker: "SPEAKER_01", Text: "Goodbye.", Timestamp: session.Timestamp{Start: 61, End: 62.25}},
		}

		out := format.Segments(segments)
		lines := strings.Split(out, "\n")

		require.Len(t, lines, len(segments))
		assert.Equal(t, "00:00.00-00:01.50 : Speaker 00 Hello there.", lines[0])
		assert.Equal(t, "00:01.50-00:03.00 : No speaker here.", lines[1])
		assert.Equal(t, "01:01.00-01:02.25 : Speaker 01 Goodbye.", lines[2])
	})

	t.Run("line breaks in text stay on one line", func(t *testing.T) {
		segments := []session.Segment{
			{Speaker: "SPEAKER_00", Text: "first line\nsecond line", Timestamp: session.Timestamp{End: 2}},
			{Text: "  next\r\n\tturn  ", Timestamp: session.Timestamp{Start: 2, End: 3}},
		}

		lines := strings.Split(format.Segments(segments), "\n")

		require.Len(t, lines, len(segments))
		assert.Equal(t, "00:00.00-00:02.00 : Speaker 00 first line second line", lines[0])
		assert.Equal(t, "00:02.00-00:03.00 : next turn", lines[1])
	})
}
