package pipeline

// EventKind distinguishes ordinary progress events from terminal ones.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Event is one progress update for a pipeline run.
type Event struct {
	Kind     EventKind `json:"-"`
	Status   string    `json:"status"`
	Progress int       `json:"progress"`
}

// ProgressEmitter is a one-shot, single-producer event stream for one
// pipeline invocation. Progress values are clamped to be monotonically
// non-decreasing, a terminal event closes the stream, and nothing is
// emitted after a terminal event.
type ProgressEmitter struct {
	ch       chan Event
	highest  int
	terminal bool
}

// NewProgressEmitter creates an emitter. The buffer absorbs bursts from a
// slow consumer; once it is full, further events are dropped rather than
// blocking the producer, so a consumer that stops draining can never stall
// a run. The stream is still closed after the terminal event.
func NewProgressEmitter() *ProgressEmitter {
	return &ProgressEmitter{ch: make(chan Event, 64)}
}

// Events returns the consumer side of the stream. The channel is closed
// after the terminal event.
func (e *ProgressEmitter) Events() <-chan Event {
	return e.ch
}

// Progress emits an ordinary progress update.
func (e *ProgressEmitter) Progress(status string, progress int) {
	e.emit(Event{Kind: EventProgress, Status: status, Progress: progress})
}

// Complete emits the terminal success event at progress 100.
func (e *ProgressEmitter) Complete(status string) {
	e.emit(Event{Kind: EventComplete, Status: status, Progress: 100})
	e.close()
}

// Fail emits the terminal error event at progress 100 with a
// human-readable message.
func (e *ProgressEmitter) Fail(message string) {
	e.emit(Event{Kind: EventError, Status: message, Progress: 100})
	e.close()
}

func (e *ProgressEmitter) emit(ev Event) {
	if e.terminal {
		return
	}
	if ev.Progress < e.highest {
		ev.Progress = e.highest
	}
	e.highest = ev.Progress
	select {
	case e.ch <- ev:
	default:
		// Consumer stopped draining. Dropping the event keeps the run
		// moving; close() still signals the end of the stream.
	}
}

func (e *ProgressEmitter) close() {
	if !e.terminal {
		e.terminal = true
		close(e.ch)
	}
}
