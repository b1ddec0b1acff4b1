package bus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/llehouerou/bluewaves/internal/library"
)

type bogus struct{}

func (bogus) Kind() Kind { return "bogus" }

func TestPublish_RegistrationOrder(t *testing.T) {
	b := New(nil)

	var got []string
	b.Subscribe(KindPlayPressed, func(Event) { got = append(got, "first") })
	b.Subscribe(KindPlayPressed, func(Event) { got = append(got, "second") })
	b.Subscribe(KindPlayPressed, func(Event) { got = append(got, "third") })

	b.Publish(PlayPressed{})

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPublish_OnlyMatchingKind(t *testing.T) {
	b := New(nil)

	calls := 0
	b.Subscribe(KindStopPressed, func(Event) { calls++ })

	b.Publish(PlayPressed{})
	if calls != 0 {
		t.Errorf("stop handler ran %d times for a play event", calls)
	}
}

func TestOn_TypedPayload(t *testing.T) {
	b := New(nil)

	var got library.Song
	On(b, func(e SongQueued) { got = e.Song })

	b.Publish(SongQueued{Song: library.Song{Filename: "/a.mp3"}})

	if got.Filename != "/a.mp3" {
		t.Errorf("Filename = %q, want /a.mp3", got.Filename)
	}
}

func TestPublish_NotReentrant(t *testing.T) {
	b := New(nil)

	var order []string
	b.Subscribe(KindNextPressed, func(Event) {
		order = append(order, "next:start")
		b.Publish(AskShuffleSong{})
		order = append(order, "next:end")
	})
	b.Subscribe(KindNextPressed, func(Event) {
		order = append(order, "next:second")
	})
	b.Subscribe(KindAskShuffleSong, func(Event) {
		order = append(order, "shuffle")
	})

	b.Publish(NextPressed{})

	want := []string{"next:start", "next:end", "next:second", "shuffle"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestUnknownKind_Ignored(t *testing.T) {
	b := New(nil)

	called := false
	b.Subscribe("bogus", func(Event) { called = true })
	b.Publish(bogus{})

	if called {
		t.Error("handler for unknown kind should never run")
	}

	// The bus keeps working afterwards.
	ok := false
	b.Subscribe(KindAbortPlayback, func(Event) { ok = true })
	b.Publish(AbortPlayback{})
	if !ok {
		t.Error("known signal not delivered after unknown one")
	}
}

func TestPost_DeliveredByDrain(t *testing.T) {
	b := New(nil)

	var got []string
	On(b, func(e SimilarArtistsFound) { got = e.Artists })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Post(SimilarArtistsFound{Artist: "A", Artists: []string{"B"}})
	}()
	wg.Wait()

	if got != nil {
		t.Fatal("posted event delivered before Drain")
	}
	if n := b.Drain(); n != 1 {
		t.Errorf("Drain() = %d, want 1", n)
	}
	if len(got) != 1 || got[0] != "B" {
		t.Errorf("Artists = %v, want [B]", got)
	}
}

func TestRun_ExecutesPostedWork(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		b := New(nil)
		ctx, cancel := context.WithCancel(t.Context())

		done := make(chan error)
		go func() { done <- b.Run(ctx) }()

		ran := make(chan struct{})
		b.Do(func() { close(ran) })
		<-ran

		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}

		// Do after close returns without blocking.
		b.Do(func() { t.Error("work ran after the bus closed") })
	})
}

func TestPublish_PanicDropsQueuedEvents(t *testing.T) {
	b := New(nil)

	var stops int
	b.Subscribe(KindPlayPressed, func(Event) {
		b.Publish(StopPressed{})
		panic("handler failed")
	})
	b.Subscribe(KindStopPressed, func(Event) { stops++ })

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the handler panic to propagate")
			}
		}()
		b.Publish(PlayPressed{})
	}()

	b.Publish(NextPressed{})
	if stops != 0 {
		t.Errorf("StopPressed delivered %d times after the panic, want 0", stops)
	}

	b.Publish(StopPressed{})
	if stops != 1 {
		t.Errorf("StopPressed delivered %d times, want 1", stops)
	}
}
