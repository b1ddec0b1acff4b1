package player

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Stopped, "Stopped"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{Stopped, false},
		{Playing, true},
		{Paused, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsActive(); got != tt.want {
				t.Errorf("State.IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMock_RecordsRequests(t *testing.T) {
	m := NewMock()

	req := Request{Path: "/a.flac", Gain: GainAlbum}
	if err := m.Play(req); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if m.State() != Playing {
		t.Errorf("State() = %v, want Playing", m.State())
	}

	calls := m.PlayCalls()
	if len(calls) != 1 || calls[0] != req {
		t.Errorf("PlayCalls() = %v, want [%v]", calls, req)
	}
}

func TestMock_Toggle(t *testing.T) {
	tests := []struct {
		name  string
		start State
		want  State
	}{
		{"playing pauses", Playing, Paused},
		{"paused resumes", Paused, Playing},
		{"stopped stays stopped", Stopped, Stopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock()
			m.SetState(tt.start)
			m.Toggle()
			if m.State() != tt.want {
				t.Errorf("State() = %v, want %v", m.State(), tt.want)
			}
		})
	}
}

func TestNull_TracksState(t *testing.T) {
	n := NewNull(nil)

	if err := n.Play(Request{Path: "/a.mp3", Gain: GainTrack}); err != nil {
		t.Fatal(err)
	}
	if n.State() != Playing {
		t.Fatalf("State() = %v, want Playing", n.State())
	}
	n.Toggle()
	if n.State() != Paused {
		t.Errorf("State() after toggle = %v, want Paused", n.State())
	}
	n.Stop()
	if n.State() != Stopped {
		t.Errorf("State() after stop = %v, want Stopped", n.State())
	}
}
