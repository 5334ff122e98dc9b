package entity

import "time"

// TaskStatus is the lifecycle state of an analysis task.
type TaskStatus string

const (
	StatusQueued     TaskStatus = "queued"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusError      TaskStatus = "error"
)

// Terminal reports whether no further transitions may happen.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// TranscriptSegment is a timed span of transcript text, the unit of AI
// detection. AIProbability is the estimated chance the span is
// machine-generated; nil means detection failed for this segment, which is
// distinct from a probability of zero.
type TranscriptSegment struct {
	Start         float64  `json:"start"`
	End           float64  `json:"end"`
	Text          string   `json:"text"`
	Speaker       string   `json:"speaker,omitempty"`
	AIProbability *float64 `json:"ai_probability"`
}

// Transcript is the structured transcription of a task's audio track.
type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Segments []TranscriptSegment `json:"segments"`
}

// Task is one end-to-end analysis request and its accumulated state. ID and
// URL are immutable after creation; the remaining fields are filled in by the
// pipeline as stages complete. Timestamp is set when the task reaches a
// terminal state.
type Task struct {
	ID             string      `json:"id"`
	URL            string      `json:"url"`
	Status         TaskStatus  `json:"status"`
	Progress       string      `json:"progress,omitempty"`
	ScreenshotPath string      `json:"screenshot_path,omitempty"`
	Transcript     *Transcript `json:"transcript,omitempty"`
	Error          string      `json:"error,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Timestamp      *time.Time  `json:"timestamp,omitempty"`
}

// Clone returns a deep copy. The task store hands out clones so readers and
// the pipeline never share mutable transcript state.
func (t *Task) Clone() *Task {
	c := *t
	if t.Transcript != nil {
		tc := *t.Transcript
		tc.Segments = make([]TranscriptSegment, len(t.Transcript.Segments))
		copy(tc.Segments, t.Transcript.Segments)
		for i, seg := range t.Transcript.Segments {
			if seg.AIProbability != nil {
				p := *seg.AIProbability
				tc.Segments[i].AIProbability = &p
			}
		}
		c.Transcript = &tc
	}
	if t.Timestamp != nil {
		ts := *t.Timestamp
		c.Timestamp = &ts
	}
	return &c
}
