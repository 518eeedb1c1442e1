package graphics

import (
	"sort"
	"testing"
)

func TestTimeStoreRegisterKeepsSortedOrder(t *testing.T) {
	var s TimeStore
	for _, w := range []int{5, 1, 3, 0, 4} {
		s.Register(w)
	}
	worlds := s.Worlds()
	if !sort.IntsAreSorted(worlds) {
		t.Errorf("indices not sorted: %v", worlds)
	}
	if len(worlds) != 5 {
		t.Errorf("got %d worlds, want 5", len(worlds))
	}
}

func TestTimeStoreRegisterIdempotent(t *testing.T) {
	var s TimeStore
	s.Register(2)
	s.Register(2)
	s.Register(2)
	if len(s.Worlds()) != 1 {
		t.Errorf("duplicate registration grew the set: %v", s.Worlds())
	}
}

func TestTimeStoreRejectsNegativeIndex(t *testing.T) {
	var s TimeStore
	s.Register(-1)
	if len(s.Worlds()) != 0 {
		t.Errorf("negative index registered: %v", s.Worlds())
	}
}

func TestTimeStoreUnregister(t *testing.T) {
	var s TimeStore
	for _, w := range []int{0, 1, 2} {
		s.Register(w)
	}
	s.Unregister(1)

	if s.Registered(1) {
		t.Error("world 1 still registered")
	}
	worlds := s.Worlds()
	if len(worlds) != 2 || worlds[0] != 0 || worlds[1] != 2 {
		t.Errorf("remaining worlds: %v", worlds)
	}

	// Unknown index is a no-op.
	s.Unregister(42)
	if len(s.Worlds()) != 2 {
		t.Errorf("unregistering unknown index changed the set: %v", s.Worlds())
	}
}

func TestTimeStoreSlotSurvivesUnregister(t *testing.T) {
	var s TimeStore
	s.Register(3)
	s.Record(3, 1.5, 0.02)
	s.Unregister(3)

	// Slot table never shrinks; a re-registered world sees its old clock
	// until the next Record.
	got := s.Time(3)
	if got.Elapsed != 1.5 || got.Delta != 0.02 {
		t.Errorf("slot cleared on unregister: %+v", got)
	}
}

func TestTimeStoreRecordUnknownIndexDropped(t *testing.T) {
	var s TimeStore
	s.Register(0)
	s.Record(7, 1.0, 0.02)
	if got := s.Time(7); got != (WorldTime{}) {
		t.Errorf("out-of-range record stored: %+v", got)
	}
}

func TestTimeStoreRecordAndTime(t *testing.T) {
	var s TimeStore
	s.Register(1)
	s.Record(1, 0.04, 0.02)
	s.Record(1, 0.06, 0.02)
	got := s.Time(1)
	if got.Elapsed != 0.06 || got.Delta != 0.02 {
		t.Errorf("got %+v", got)
	}
}
