package events

import "time"

// CompileStart is emitted before compiling a contract declaration.
type CompileStart struct {
	Contract string
}

// CompileFinish is emitted after compiling a contract declaration.
type CompileFinish struct {
	Contract   string
	Violations int
	Err        error
	Duration   time.Duration
}

// PhaseStart is emitted before a compiler phase runs.
type PhaseStart struct {
	Contract string
	Phase    string
}

// PhaseFinish is emitted after a compiler phase completes.
type PhaseFinish struct {
	Contract string
	Phase    string
	Duration time.Duration
}
