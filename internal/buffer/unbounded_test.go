package buffer

import "testing"

func TestUnboundedPreservesOrder(t *testing.T) {
	q := Unbounded[int](4, 0)

	for i := 0; i < 1000; i++ {
		q.In() <- i
	}
	close(q.In())

	want := 0
	for v := range q.Out() {
		if v != want {
			t.Fatalf("got %d, want %d", v, want)
		}
		want++
	}
	if want != 1000 {
		t.Fatalf("received %d items, want 1000", want)
	}
	if q.Dropped() != 0 {
		t.Errorf("Dropped() = %d without a limit", q.Dropped())
	}
}

func TestUnboundedDropsOldest(t *testing.T) {
	q := Unbounded[int](4, 5)

	// Nobody reads until the input is closed, so the pump holds everything
	// beyond the small channel buffers.
	for i := 0; i < 100; i++ {
		q.In() <- i
	}
	close(q.In())

	var got []int
	for v := range q.Out() {
		got = append(got, v)
	}

	if len(got) == 0 || got[len(got)-1] != 99 {
		t.Fatalf("newest item lost: %v", got)
	}
	if int64(len(got))+q.Dropped() != 100 {
		t.Errorf("received %d and dropped %d, want 100 total", len(got), q.Dropped())
	}
	if q.Dropped() == 0 {
		t.Error("expected drops past the hard limit")
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("out of order: %v", got)
		}
	}
}
