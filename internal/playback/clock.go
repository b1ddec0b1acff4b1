package playback

import (
	"context"
	"time"

	"github.com/llehouerou/bluewaves/internal/player"
)

// Clock ends tracks after their tagged length. It stands in for the
// end-of-stream notification of backends that produce no audio.
type Clock struct {
	ctrl *Controller
	sub  *Subscription
	do   func(func())

	timer     *time.Timer
	filename  string
	remaining time.Duration
	startedAt time.Time
	paused    bool
}

// NewClock subscribes to c. do must run its argument on the control
// goroutine (bus.Bus.Do).
func NewClock(c *Controller, do func(func())) *Clock {
	return &Clock{ctrl: c, sub: c.Subscribe(), do: do}
}

// Run tracks playback until ctx is done or the controller closes.
func (k *Clock) Run(ctx context.Context) {
	defer k.stop()
	for {
		var fire <-chan time.Time
		if k.timer != nil {
			fire = k.timer.C
		}
		select {
		case <-ctx.Done():
			return
		case <-k.sub.Done:
			return
		case tc := <-k.sub.TrackChanged:
			k.start(tc.Song.Filename, tc.Song.Duration())
		case <-k.sub.StateChanged:
			k.reconcile()
		case <-fire:
			k.timer = nil
			k.finish(k.filename)
		}
	}
}

// reconcile follows the controller's current state rather than the event,
// since track and state notifications arrive on separate channels.
func (k *Clock) reconcile() {
	switch k.ctrl.Status().State {
	case player.Stopped:
		k.stop()
		k.filename = ""
	case player.Paused:
		if k.timer != nil && !k.paused {
			k.stop()
			k.remaining -= time.Since(k.startedAt)
			k.paused = true
		}
	case player.Playing:
		if k.paused {
			k.paused = false
			k.arm()
		}
	}
}

func (k *Clock) start(filename string, length time.Duration) {
	k.stop()
	k.filename = filename
	k.remaining = length
	k.paused = false
	if length > 0 {
		k.arm()
	}
}

func (k *Clock) arm() {
	k.startedAt = time.Now()
	k.timer = time.NewTimer(max(k.remaining, 0))
}

func (k *Clock) stop() {
	if k.timer != nil {
		k.timer.Stop()
		k.timer = nil
	}
}

func (k *Clock) finish(filename string) {
	k.do(func() {
		st := k.ctrl.Status()
		if st.State != player.Playing || st.Song == nil || st.Song.Filename != filename {
			return
		}
		k.ctrl.TrackFinished()
	})
}
