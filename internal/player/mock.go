package player

// Mock is a test double for a backend.
type Mock struct {
	state     State
	playErr   error
	playCalls []Request
	stopCalls int
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{state: Stopped}
}

func (m *Mock) Play(req Request) error {
	m.playCalls = append(m.playCalls, req)
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Stop() {
	m.stopCalls++
	m.state = Stopped
}

func (m *Mock) Toggle() {
	switch m.state {
	case Playing:
		m.state = Paused
	case Paused:
		m.state = Playing
	case Stopped:
		// Nothing to toggle when stopped
	}
}

func (m *Mock) State() State { return m.state }

// Test helpers

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) PlayCalls() []Request { return m.playCalls }

func (m *Mock) StopCalls() int { return m.stopCalls }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
