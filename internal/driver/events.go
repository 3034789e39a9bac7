package driver

// Stage is the part of a document check an Event refers to.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageInfer
	StageReport
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageInfer:
		return "inferring"
	case StageReport:
		return "reporting"
	}
	return ""
}

// Status is the state of a document within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
	StatusCached
)

// Event reports progress on one document. File is empty for run-wide
// events.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// EventSink receives progress events. It is called from worker
// goroutines and must not block for long.
type EventSink func(Event)

func (s EventSink) emit(file string, stage Stage, status Status) {
	if s != nil {
		s(Event{File: file, Stage: stage, Status: status})
	}
}

// ChannelSink adapts a channel to an EventSink. The caller closes ch
// once Check returns.
func ChannelSink(ch chan<- Event) EventSink {
	return func(ev Event) { ch <- ev }
}
