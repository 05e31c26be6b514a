package ocproc

import "time"

// QCResult is the outcome of one test-suite run against one record.
type QCResult string

const (
	QCPass         QCResult = "P"
	QCFail         QCResult = "F"
	QCManualReview QCResult = "R"
	QCSkip         QCResult = "S"
)

// MessageType classifies record history entries.
type MessageType string

const (
	MessageNote    MessageType = "n"
	MessageInfo    MessageType = "i"
	MessageWarning MessageType = "w"
	MessageError   MessageType = "e"
)

// QCMessage is a single finding raised during a suite run, attributed to the
// traversal path where it was observed.
type QCMessage struct {
	Code     string
	Path     []string
	RefValue Value
}

// QCTestRun records that a named suite version ran against a record.
type QCTestRun struct {
	TestName    string
	TestVersion string
	RunAt       time.Time
	Outcome     QCResult
	Messages    []QCMessage
	Tags        []string
	Stale       bool
}

// HistoryEntry is an audit line attached to a root record.
type HistoryEntry struct {
	Message        string
	Timestamp      time.Time
	SourceName     string
	SourceVersion  string
	SourceInstance string
	Type           MessageType
}
