package store

import "testing"

func TestGetReturnsInitial(t *testing.T) {
	s := New(42)
	if got := s.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
}

func TestSetReplacesValue(t *testing.T) {
	s := New("a")
	s.Set("b")
	if got := s.Get(); got != "b" {
		t.Errorf("Get() = %q, want %q", got, "b")
	}
}

func TestUpdateAppliesFunc(t *testing.T) {
	s := New([]int{1, 2})
	s.Update(func(v []int) []int {
		return append(append([]int(nil), v...), 3)
	})
	got := s.Get()
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("Get() = %v, want [1 2 3]", got)
	}
}

func TestSubscribeReceivesCommits(t *testing.T) {
	s := New(0)
	var seen []int
	s.Subscribe(func(v int) { seen = append(seen, v) })

	if len(seen) != 0 {
		t.Fatalf("subscriber called at subscribe time with %v", seen)
	}

	s.Set(1)
	s.Update(func(v int) int { return v + 1 })

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("subscriber saw %v, want [1 2]", seen)
	}
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	s := New(0)
	var order []string
	s.Subscribe(func(int) { order = append(order, "first") })
	s.Subscribe(func(int) { order = append(order, "second") })
	s.Subscribe(func(int) { order = append(order, "third") })

	s.Set(1)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if i >= len(order) || order[i] != w {
			t.Fatalf("delivery order = %v, want %v", order, want)
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	s := New(0)
	calls := 0
	cancel := s.Subscribe(func(int) { calls++ })

	s.Set(1)
	cancel()
	s.Set(2)

	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestSubscriberMayReadStore(t *testing.T) {
	// Callbacks run outside the lock, so reading back must not deadlock.
	s := New(1)
	var observed int
	s.Subscribe(func(int) { observed = s.Get() })

	s.Set(7)
	if observed != 7 {
		t.Errorf("subscriber read %d, want 7", observed)
	}
}
