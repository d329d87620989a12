package workflow

import (
	"fmt"
	"strings"
)

// Stage is one independently triggerable processing operation.
type Stage int

const (
	StageUpload Stage = iota
	StageTranscribe
	StageDiarize
	StageNotes
	StageProcessLarge

	stageCount
)

// Stages lists every stage in display order.
var Stages = []Stage{StageUpload, StageTranscribe, StageDiarize, StageNotes, StageProcessLarge}

var stageNames = [stageCount]string{
	StageUpload:       "upload",
	StageTranscribe:   "transcribe",
	StageDiarize:      "diarize",
	StageNotes:        "notes",
	StageProcessLarge: "process-large",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return fmt.Sprintf("stage(%d)", int(s))
	}

	return stageNames[s]
}

// ParseStage is the inverse of String.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}

	return 0, fmt.Errorf("unknown stage %q", name)
}

func (s Stage) runningMessage() string {
	switch s {
	case StageUpload:
		return "Uploading..."
	case StageTranscribe:
		return "Transcribing..."
	case StageDiarize:
		return "Diarizing..."
	case StageNotes:
		return "Generating notes..."
	default:
		return "Queueing large audio processing..."
	}
}

func (s Stage) doneMessage() string {
	switch s {
	case StageUpload:
		return "Upload complete."
	case StageTranscribe:
		return "Transcription complete."
	case StageDiarize:
		return "Diarization complete."
	case StageNotes:
		return "Notes generated."
	default:
		return "Large audio processing queued."
	}
}

// Phase is where a stage is in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Status is one stage's state. Reason is set only when failed.
type Status struct {
	Phase  Phase
	Reason string
}

func (s Status) String() string {
	if s.Phase == PhaseFailed && s.Reason != "" {
		return "failed: " + s.Reason
	}

	return s.Phase.String()
}
