package mpris

import (
	"github.com/llehouerou/bluewaves/internal/bus"
	"github.com/llehouerou/bluewaves/internal/playback"
)

// StatusSource reports what is playing. Implemented by playback.Controller.
type StatusSource interface {
	Status() playback.Status
}

// Poster hands intents to the control goroutine. Implemented by bus.Bus.
type Poster interface {
	Post(e bus.Event)
}
