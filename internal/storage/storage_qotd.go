package storage

// Question is one suggested question of the day.
type Question struct {
	Text string `json:"question"`
	User string `json:"user"`
}

// QotdRecord holds a guild's question queues.
type QotdRecord struct {
	Pending  []Question `json:"pending"`
	Accepted []Question `json:"accepted"`
}

// SuggestQuestion appends a question to the pending queue.
func (s *Storage) SuggestQuestion(guildID, text, userID string) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Qotd.Pending = append(r.Qotd.Pending, Question{Text: text, User: userID})
	})
}

// PendingQuestions returns the pending queue.
func (s *Storage) PendingQuestions(guildID string) ([]Question, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.Qotd.Pending, nil
}

// AcceptedQuestions returns the accepted queue.
func (s *Storage) AcceptedQuestions(guildID string) ([]Question, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.Qotd.Accepted, nil
}

// AcceptQuestion moves a pending question to the accepted queue, returning it
// or nil when the index is out of range. The move is one atomic update.
func (s *Storage) AcceptQuestion(guildID string, index int) (*Question, error) {
	var accepted *Question
	err := s.updateGuildRecord(guildID, func(r *Record) {
		index = abs(index)
		if index >= len(r.Qotd.Pending) {
			return
		}
		q := r.Qotd.Pending[index]
		accepted = &q
		r.Qotd.Pending = append(r.Qotd.Pending[:index], r.Qotd.Pending[index+1:]...)
		r.Qotd.Accepted = append(r.Qotd.Accepted, q)
	})
	return accepted, err
}

// DeclineQuestion drops a pending question, returning it or nil when the
// index is out of range.
func (s *Storage) DeclineQuestion(guildID string, index int) (*Question, error) {
	var declined *Question
	err := s.updateGuildRecord(guildID, func(r *Record) {
		index = abs(index)
		if index >= len(r.Qotd.Pending) {
			return
		}
		q := r.Qotd.Pending[index]
		declined = &q
		r.Qotd.Pending = append(r.Qotd.Pending[:index], r.Qotd.Pending[index+1:]...)
	})
	return declined, err
}

// FetchQuestion pops the next accepted question, or nil when the queue is
// empty.
func (s *Storage) FetchQuestion(guildID string) (*Question, error) {
	var next *Question
	err := s.updateGuildRecord(guildID, func(r *Record) {
		if len(r.Qotd.Accepted) == 0 {
			return
		}
		q := r.Qotd.Accepted[0]
		next = &q
		r.Qotd.Accepted = r.Qotd.Accepted[1:]
	})
	return next, err
}
