package storage

// BlameEntry is one recorded blame against a user.
type BlameEntry struct {
	Blamer string `json:"blamer"`
	Reason string `json:"reason"`
}

// PushBlame appends a blame against a user.
func (s *Storage) PushBlame(guildID, userID, blamer, reason string) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Blames[userID] = append(r.Blames[userID], BlameEntry{Blamer: blamer, Reason: reason})
	})
}

// Blames returns every blame recorded against a user.
func (s *Storage) Blames(guildID, userID string) ([]BlameEntry, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.Blames[userID], nil
}

// BlameCount returns the number of blames recorded against a user.
func (s *Storage) BlameCount(guildID, userID string) (int, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return len(record.Blames[userID]), nil
}
