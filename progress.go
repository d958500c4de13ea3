package dream

import "log"

// ProgressSink receives operational progress messages from long-running
// operations (per-combination inference start/completion, elapsed time).
// It is informational only and has no bearing on results.
type ProgressSink interface {
	Printf(format string, v ...interface{})
}

// LogProgress returns a ProgressSink backed by the standard logger.
func LogProgress() ProgressSink {
	return log.Default()
}

type discardSink struct{}

func (discardSink) Printf(format string, v ...interface{}) {}

// DiscardProgress returns a ProgressSink that drops all messages.
func DiscardProgress() ProgressSink {
	return discardSink{}
}
