package radio

import (
	"path/filepath"
	"sort"
	"testing"

	"atlas-bot/internal/storage"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewQueue(store)
}

func track(title string) storage.Track {
	return storage.Track{URL: "https://example.com/" + title, Title: title, Length: 60_000}
}

func fill(t *testing.T, q *Queue, guildID string, titles ...string) {
	t.Helper()
	tracks := make([]storage.Track, len(titles))
	for i, title := range titles {
		tracks[i] = track(title)
	}
	if _, err := q.Enqueue(guildID, tracks); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
}

func assertOrder(t *testing.T, q *Queue, guildID string, want ...string) {
	t.Helper()
	_, tracks, err := q.Snapshot(guildID)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	got := make([]string, len(tracks))
	for i, tr := range tracks {
		got[i] = tr.Title
	}
	if len(got) != len(want) {
		t.Fatalf("queue = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("queue = %v, want %v", got, want)
		}
	}
}

func TestEnqueuePositions(t *testing.T) {
	q := newTestQueue(t)

	pos, err := q.Enqueue("g1", []storage.Track{track("a"), track("b")})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pos != 1 {
		t.Errorf("first enqueue position = %d, want 1", pos)
	}

	pos, err = q.Enqueue("g1", []storage.Track{track("c")})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pos != 3 {
		t.Errorf("second enqueue position = %d, want 3", pos)
	}

	// Empty input changes nothing and reports where a track would land.
	pos, err = q.Enqueue("g1", nil)
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if pos != 4 {
		t.Errorf("empty enqueue position = %d, want 4", pos)
	}
	assertOrder(t, q, "g1", "a", "b", "c")
}

func TestOnTrackEndPlaylistRepeat(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b", "c")

	next, err := q.OnTrackEnd("g1")
	if err != nil {
		t.Fatalf("OnTrackEnd: %v", err)
	}
	if next == nil || next.Title != "b" {
		t.Fatalf("next = %v, want b", next)
	}
	assertOrder(t, q, "g1", "b", "c", "a")

	next, _ = q.OnTrackEnd("g1")
	if next == nil || next.Title != "c" {
		t.Fatalf("next = %v, want c", next)
	}
	assertOrder(t, q, "g1", "c", "a", "b")
}

func TestOnTrackEndTrackRepeat(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b")
	if err := q.SetLoop("g1", storage.LoopTrack); err != nil {
		t.Fatalf("SetLoop: %v", err)
	}

	for i := 0; i < 3; i++ {
		next, err := q.OnTrackEnd("g1")
		if err != nil {
			t.Fatalf("OnTrackEnd: %v", err)
		}
		if next == nil || next.Title != "a" {
			t.Fatalf("next = %v, want a", next)
		}
	}
	assertOrder(t, q, "g1", "a", "b")
}

func TestOnTrackEndNoRepeatDrains(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b")
	_ = q.SetLoop("g1", storage.LoopNone)

	next, err := q.OnTrackEnd("g1")
	if err != nil {
		t.Fatalf("OnTrackEnd: %v", err)
	}
	if next == nil || next.Title != "b" {
		t.Fatalf("next = %v, want b", next)
	}

	next, _ = q.OnTrackEnd("g1")
	if next != nil {
		t.Fatalf("next after drain = %v, want nil", next)
	}
	assertOrder(t, q, "g1")

	// Track end on an already empty queue stays nil.
	next, _ = q.OnTrackEnd("g1")
	if next != nil {
		t.Fatalf("next on empty = %v, want nil", next)
	}
}

func TestCycleLoopThreeTimesIsIdentity(t *testing.T) {
	q := newTestQueue(t)

	start, err := q.Loop("g1")
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := q.CycleLoop("g1"); err != nil {
			t.Fatalf("CycleLoop: %v", err)
		}
	}
	end, _ := q.Loop("g1")
	if end != start {
		t.Errorf("loop after three cycles = %q, want %q", end, start)
	}
}

func TestJumpTo(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b", "c", "d")

	// Jumping to position 3 puts the target one slot behind the head; the
	// stop-driven advance then makes it the playing track.
	if err := q.JumpTo("g1", 3); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	assertOrder(t, q, "g1", "c", "d", "a", "b")

	// Positions 0 and 1 are no-ops.
	if err := q.JumpTo("g1", 1); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	assertOrder(t, q, "g1", "c", "d", "a", "b")

	// Negative positions fold to their absolute value.
	if err := q.JumpTo("g1", -2); err != nil {
		t.Fatalf("JumpTo: %v", err)
	}
	assertOrder(t, q, "g1", "d", "a", "b", "c")
}

func TestRemoveAtOutOfRange(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a")

	removed, err := q.RemoveAt("g1", 7)
	if err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if removed != nil {
		t.Errorf("removed = %v, want nil", removed)
	}
	assertOrder(t, q, "g1", "a")
}

func TestSwapSelfIsNoop(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b")

	if err := q.Swap("g1", 1, 1); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	assertOrder(t, q, "g1", "a", "b")
}

func TestShufflePreservesTracks(t *testing.T) {
	q := newTestQueue(t)
	titles := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	fill(t, q, "g1", titles...)

	if err := q.Shuffle("g1"); err != nil {
		t.Fatalf("Shuffle: %v", err)
	}

	_, tracks, _ := q.Snapshot("g1")
	got := make([]string, len(tracks))
	for i, tr := range tracks {
		got[i] = tr.Title
	}
	sort.Strings(got)
	for i, title := range titles {
		if got[i] != title {
			t.Fatalf("shuffled multiset = %v, want permutation of %v", got, titles)
		}
	}
}

func TestShuffleShortQueueIsNoop(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a")

	if err := q.Shuffle("g1"); err != nil {
		t.Fatalf("Shuffle: %v", err)
	}
	assertOrder(t, q, "g1", "a")
}

func TestClearAndTotalLength(t *testing.T) {
	q := newTestQueue(t)
	fill(t, q, "g1", "a", "b", "c")

	total, err := q.TotalLength("g1")
	if err != nil {
		t.Fatalf("TotalLength: %v", err)
	}
	if total != 180_000 {
		t.Errorf("total = %d, want 180000", total)
	}

	if err := q.Clear("g1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	assertOrder(t, q, "g1")
}
