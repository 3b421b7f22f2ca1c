package storage

import "math/rand"

// Track is one queued audio item. Tracks are immutable once enqueued; loop
// handling removes and re-appends them rather than editing in place.
type Track struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Length int64  `json:"length"` // milliseconds, 0 for live streams
	User   string `json:"user"`   // requester ID
}

// LoopMode governs what happens to the head track when it finishes.
type LoopMode string

const (
	LoopPlaylist LoopMode = "playlist_repeat"
	LoopTrack    LoopMode = "track_repeat"
	LoopNone     LoopMode = "no_repeat"
)

// RadioRecord is the persisted queue state for one guild. Index 0 is the
// track the audio node is currently told to play while playback is active.
type RadioRecord struct {
	Loop     LoopMode `json:"loop"`
	Playlist []Track  `json:"playlist"`
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// PushTracks appends tracks to a guild's playlist and returns the new length.
func (s *Storage) PushTracks(guildID string, tracks []Track) (int, error) {
	length := 0
	err := s.updateGuildRecord(guildID, func(r *Record) {
		r.Radio.Playlist = append(r.Radio.Playlist, tracks...)
		length = len(r.Radio.Playlist)
	})
	return length, err
}

// PeekAt returns the track at index, or nil when out of range. Negative
// indices are folded to their absolute value.
func (s *Storage) PeekAt(guildID string, index int) (*Track, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	index = abs(index)
	if index >= len(record.Radio.Playlist) {
		return nil, nil
	}
	track := record.Radio.Playlist[index]
	return &track, nil
}

// RemoveAt removes and returns the track at index, or nil when out of range.
func (s *Storage) RemoveAt(guildID string, index int) (*Track, error) {
	var removed *Track
	err := s.updateGuildRecord(guildID, func(r *Record) {
		index = abs(index)
		if index >= len(r.Radio.Playlist) {
			return
		}
		track := r.Radio.Playlist[index]
		removed = &track
		r.Radio.Playlist = append(r.Radio.Playlist[:index], r.Radio.Playlist[index+1:]...)
	})
	return removed, err
}

// Swap exchanges the tracks at two indices. Out-of-range indices make the
// call a silent no-op.
func (s *Storage) Swap(guildID string, i, j int) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		i, j = abs(i), abs(j)
		if i >= len(r.Radio.Playlist) || j >= len(r.Radio.Playlist) {
			return
		}
		r.Radio.Playlist[i], r.Radio.Playlist[j] = r.Radio.Playlist[j], r.Radio.Playlist[i]
	})
}

// RotateLeft moves the first n tracks to the tail, preserving their relative
// order. The remove-and-reappend happens inside a single document update, so
// a reader never observes the queue torn between the two halves.
func (s *Storage) RotateLeft(guildID string, n int) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		size := len(r.Radio.Playlist)
		if size == 0 {
			return
		}
		n = abs(n) % size
		if n == 0 {
			return
		}
		rotated := make([]Track, 0, size)
		rotated = append(rotated, r.Radio.Playlist[n:]...)
		rotated = append(rotated, r.Radio.Playlist[:n]...)
		r.Radio.Playlist = rotated
	})
}

// ShufflePlaylist randomly permutes the whole playlist inside one document
// update, so a track pushed by a concurrent handler is never dropped by a
// stale snapshot. Playlists shorter than two tracks are left untouched.
func (s *Storage) ShufflePlaylist(guildID string) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		if len(r.Radio.Playlist) < 2 {
			return
		}
		rand.Shuffle(len(r.Radio.Playlist), func(i, j int) {
			r.Radio.Playlist[i], r.Radio.Playlist[j] = r.Radio.Playlist[j], r.Radio.Playlist[i]
		})
	})
}

// SetPlaylist replaces the whole playlist.
func (s *Storage) SetPlaylist(guildID string, tracks []Track) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Radio.Playlist = tracks
	})
}

// ClearPlaylist empties a guild's playlist.
func (s *Storage) ClearPlaylist(guildID string) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Radio.Playlist = []Track{}
	})
}

// SliceFirst returns up to n tracks from the head of the playlist.
func (s *Storage) SliceFirst(guildID string, n int) ([]Track, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	if n > len(record.Radio.Playlist) {
		n = len(record.Radio.Playlist)
	}
	out := make([]Track, n)
	copy(out, record.Radio.Playlist[:n])
	return out, nil
}

// Playlist returns the full playlist along with its length.
func (s *Storage) Playlist(guildID string) (int, []Track, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, nil, err
	}
	return len(record.Radio.Playlist), record.Radio.Playlist, nil
}

// PlaylistLength returns the number of queued tracks.
func (s *Storage) PlaylistLength(guildID string) (int, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}
	return len(record.Radio.Playlist), nil
}

// SumLengths returns the total queued milliseconds. Live streams count as 0.
func (s *Storage) SumLengths(guildID string) (int64, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, t := range record.Radio.Playlist {
		total += t.Length
	}
	return total, nil
}

// GetLoop returns the guild's loop mode.
func (s *Storage) GetLoop(guildID string) (LoopMode, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return LoopPlaylist, err
	}
	return record.Radio.Loop, nil
}

// SetLoop sets the guild's loop mode.
func (s *Storage) SetLoop(guildID string, mode LoopMode) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Radio.Loop = mode
	})
}

// CycleLoop advances playlist -> track -> none -> playlist in one update and
// returns the new mode.
func (s *Storage) CycleLoop(guildID string) (LoopMode, error) {
	var next LoopMode
	err := s.updateGuildRecord(guildID, func(r *Record) {
		switch r.Radio.Loop {
		case LoopPlaylist:
			next = LoopTrack
		case LoopTrack:
			next = LoopNone
		default:
			next = LoopPlaylist
		}
		r.Radio.Loop = next
	})
	return next, err
}
