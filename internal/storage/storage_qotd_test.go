package storage

import "testing"

func TestQotdReviewFlow(t *testing.T) {
	s := newTestStorage(t)

	_ = s.SuggestQuestion("g1", "What is your favorite album?", "u1")
	_ = s.SuggestQuestion("g1", "Cats or dogs?", "u2")
	_ = s.SuggestQuestion("g1", "Best concert you attended?", "u3")

	pending, err := s.PendingQuestions("g1")
	if err != nil {
		t.Fatalf("PendingQuestions: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}

	q, err := s.AcceptQuestion("g1", 1)
	if err != nil {
		t.Fatalf("AcceptQuestion: %v", err)
	}
	if q == nil || q.Text != "Cats or dogs?" {
		t.Fatalf("accepted = %v, want the second question", q)
	}

	q, err = s.DeclineQuestion("g1", 0)
	if err != nil {
		t.Fatalf("DeclineQuestion: %v", err)
	}
	if q == nil || q.User != "u1" {
		t.Fatalf("declined = %v, want u1's question", q)
	}

	pending, _ = s.PendingQuestions("g1")
	if len(pending) != 1 || pending[0].User != "u3" {
		t.Errorf("pending after review = %v", pending)
	}

	// Out-of-range review indices report nil instead of failing.
	if q, _ := s.AcceptQuestion("g1", 10); q != nil {
		t.Errorf("AcceptQuestion out of range = %v, want nil", q)
	}
}

func TestFetchQuestionPopsInOrder(t *testing.T) {
	s := newTestStorage(t)

	_ = s.SuggestQuestion("g1", "first", "u1")
	_ = s.SuggestQuestion("g1", "second", "u2")
	_, _ = s.AcceptQuestion("g1", 0)
	_, _ = s.AcceptQuestion("g1", 0)

	q, err := s.FetchQuestion("g1")
	if err != nil {
		t.Fatalf("FetchQuestion: %v", err)
	}
	if q == nil || q.Text != "first" {
		t.Fatalf("fetched = %v, want first", q)
	}

	q, _ = s.FetchQuestion("g1")
	if q == nil || q.Text != "second" {
		t.Fatalf("fetched = %v, want second", q)
	}

	q, _ = s.FetchQuestion("g1")
	if q != nil {
		t.Errorf("fetched from empty queue = %v, want nil", q)
	}
}
