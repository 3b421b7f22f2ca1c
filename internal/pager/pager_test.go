package pager

import (
	"fmt"
	"testing"
	"time"
)

func rows(n int) []Pair {
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair{Name: fmt.Sprintf("%d.", i+1), Value: "row"}
	}
	return out
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		length, pageSize, pages int
	}{
		{0, 7, 1},
		{1, 7, 1},
		{7, 7, 1},
		{8, 7, 2},
		{17, 7, 3},
		{21, 7, 3},
	}
	for _, c := range cases {
		p := New(FromSlice(rows(c.length)), c.length, c.pageSize)
		if got := p.LastPage(); got != c.pages {
			t.Errorf("LastPage(length=%d) = %d, want %d", c.length, got, c.pages)
		}
	}
}

func TestTurnClamps(t *testing.T) {
	p := New(FromSlice(rows(17)), 17, 7)

	// Way past the end lands on the last page.
	page := p.Turn(5)
	if p.Page() != 3 {
		t.Errorf("page after Turn(5) = %d, want 3", p.Page())
	}
	if len(page) != 3 {
		t.Errorf("last page rows = %d, want 3", len(page))
	}

	// Way before the start lands on the first page.
	page = p.Turn(-10)
	if p.Page() != 1 {
		t.Errorf("page after Turn(-10) = %d, want 1", p.Page())
	}
	if len(page) != 7 {
		t.Errorf("first page rows = %d, want 7", len(page))
	}
}

func TestSourceReadAtMostOnce(t *testing.T) {
	reads := 0
	all := rows(17)
	source := func() (Pair, bool) {
		if reads >= len(all) {
			return Pair{}, false
		}
		row := all[reads]
		reads++
		return row, true
	}

	p := New(source, 17, 7)

	p.Turn(0)
	if reads != 7 {
		t.Errorf("reads after first page = %d, want 7", reads)
	}

	// Going back and forth over materialized pages never touches the source.
	p.Turn(1)
	p.Turn(-1)
	p.Turn(1)
	if reads != 14 {
		t.Errorf("reads after revisits = %d, want 14", reads)
	}

	p.Turn(1)
	if reads != 17 {
		t.Errorf("reads after last page = %d, want 17", reads)
	}
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(30 * time.Millisecond)
	p := New(FromSlice(rows(3)), 3, 7)

	r.Bind("msg1", p)
	if _, ok := r.Get("msg1"); !ok {
		t.Fatal("pager missing right after Bind")
	}

	// Polling with Get would refresh the timer, so wait out the TTL in one
	// stretch. The Get above restarted the clock.
	time.Sleep(200 * time.Millisecond)
	if _, ok := r.Get("msg1"); ok {
		t.Error("pager still alive past its TTL")
	}
}

func TestRegistryUnbind(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.Bind("msg1", New(FromSlice(rows(1)), 1, 7))

	r.Unbind("msg1")
	if _, ok := r.Get("msg1"); ok {
		t.Error("pager still present after Unbind")
	}
}
