package coincidence

// Callbacks is the pluggable extension trait from spec.md §4.6: a
// user-supplied hook can initialize state, modify a window group before
// classification, accept or reject an individual coincidence before it
// is written, and run cleanup at the end of the stream.
type Callbacks interface {
	Initialize()
	PreWindowModify(*WindowGroup)
	Accept(WindowGroup) bool
	Terminate()
}

// NoopCallbacks is the default Callbacks implementation: it never
// modifies a window and accepts every coincidence.
type NoopCallbacks struct{}

func (NoopCallbacks) Initialize()                  {}
func (NoopCallbacks) PreWindowModify(*WindowGroup) {}
func (NoopCallbacks) Accept(WindowGroup) bool      { return true }
func (NoopCallbacks) Terminate()                   {}
