package trace

import "go.opentelemetry.io/otel/attribute"

// Attribute keys used by analysis spans and the service surface.
const (
	AttrProfile       = "analysis.profile"
	AttrOutcome       = "analysis.outcome"
	AttrClipSeconds   = "analysis.clip_seconds"
	AttrClipLevelDB   = "analysis.clip_level_db"
	AttrFramesTotal   = "analysis.frames_total"
	AttrFramesScored  = "analysis.frames_scored"
	AttrVerdictLabels = "analysis.verdict_labels"

	AttrRequestID = "request.id"
)

// Profile records the variant profile driving the analysis.
func Profile(name string) attribute.KeyValue {
	return attribute.String(AttrProfile, name)
}

// Outcome records how the analysis ended: "verdict", "no_detection",
// "decode_failure" or "error".
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

// ClipSeconds records the decoded clip duration.
func ClipSeconds(seconds float64) attribute.KeyValue {
	return attribute.Float64(AttrClipSeconds, seconds)
}

// ClipLevelDB records the clip-wide dBFS level.
func ClipLevelDB(level float64) attribute.KeyValue {
	return attribute.Float64(AttrClipLevelDB, level)
}

// FramesTotal records the number of windows emitted by the framer.
func FramesTotal(n int) attribute.KeyValue {
	return attribute.Int(AttrFramesTotal, n)
}

// FramesScored records the number of windows that passed the energy gate
// and reached the classifier.
func FramesScored(n int) attribute.KeyValue {
	return attribute.Int(AttrFramesScored, n)
}

// VerdictLabels records how many labels the verdict carries.
func VerdictLabels(n int) attribute.KeyValue {
	return attribute.Int(AttrVerdictLabels, n)
}

// RequestID records the service request id.
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}
