// Package radio implements the per-guild playlist state machine and the
// playback coordinator that drives the external audio node.
package radio

import (
	"atlas-bot/internal/storage"
)

// Queue enforces queue invariants and loop semantics on top of storage. It
// holds no queue state of its own: every operation re-reads the persisted
// document, so concurrent handlers always act on the latest queue.
//
// All operations are defensive. Out-of-range indices never fail; they return
// nil and the caller reports "Invalid index".
type Queue struct {
	store *storage.Storage
}

func NewQueue(store *storage.Storage) *Queue {
	return &Queue{store: store}
}

// Enqueue appends tracks and returns the 1-based position of the first
// appended track. An empty input is a no-op returning length+1.
func (q *Queue) Enqueue(guildID string, tracks []storage.Track) (int, error) {
	if len(tracks) == 0 {
		length, err := q.store.PlaylistLength(guildID)
		return length + 1, err
	}

	length, err := q.store.PushTracks(guildID, tracks)
	if err != nil {
		return 0, err
	}
	return length - len(tracks) + 1, nil
}

// RemoveAt removes the track at a 0-based absolute index, returning nil when
// the index is out of range.
func (q *Queue) RemoveAt(guildID string, index int) (*storage.Track, error) {
	return q.store.RemoveAt(guildID, index)
}

// Swap exchanges two absolute indices. Swapping index 0 is allowed; the
// command layer warns the user but the swap still happens.
func (q *Queue) Swap(guildID string, i, j int) error {
	return q.store.Swap(guildID, i, j)
}

// JumpTo rotates the queue left by index-1 positions so the target track
// lands one position behind the head. The caller then stops the current
// track; the resulting track-end advance makes the target the new head.
// Indices 0 and 1 are a no-op at the queue level.
func (q *Queue) JumpTo(guildID string, index int) error {
	index = abs(index)
	if index <= 1 {
		return nil
	}
	return q.store.RotateLeft(guildID, index-1)
}

// OnTrackEnd advances the queue when the audio node reports the head track
// finished and returns the next track to play, or nil when playback should
// stop.
func (q *Queue) OnTrackEnd(guildID string) (*storage.Track, error) {
	head, err := q.store.PeekAt(guildID, 0)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, nil
	}

	mode, err := q.store.GetLoop(guildID)
	if err != nil {
		return nil, err
	}

	switch mode {
	case storage.LoopTrack:
		return head, nil
	case storage.LoopNone:
		if _, err := q.store.RemoveAt(guildID, 0); err != nil {
			return nil, err
		}
	default: // playlist repeat: one atomic rotate, never a torn remove+push
		if err := q.store.RotateLeft(guildID, 1); err != nil {
			return nil, err
		}
	}
	return q.store.PeekAt(guildID, 0)
}

// CycleLoop advances the loop mode: playlist -> track -> none -> playlist.
func (q *Queue) CycleLoop(guildID string) (storage.LoopMode, error) {
	return q.store.CycleLoop(guildID)
}

// Loop returns the current loop mode.
func (q *Queue) Loop(guildID string) (storage.LoopMode, error) {
	return q.store.GetLoop(guildID)
}

// SetLoop sets the loop mode directly.
func (q *Queue) SetLoop(guildID string, mode storage.LoopMode) error {
	return q.store.SetLoop(guildID, mode)
}

// Shuffle randomly permutes the whole playlist in one document update. The
// currently playing track at index 0 is shuffled along with the rest, exactly
// as the feature has always behaved; callers stop the current track
// afterwards so the new head starts playing.
func (q *Queue) Shuffle(guildID string) error {
	return q.store.ShufflePlaylist(guildID)
}

// Clear empties the playlist.
func (q *Queue) Clear(guildID string) error {
	return q.store.ClearPlaylist(guildID)
}

// First returns up to n tracks from the head of the queue.
func (q *Queue) First(guildID string, n int) ([]storage.Track, error) {
	return q.store.SliceFirst(guildID, n)
}

// Snapshot returns the queue length and full track list.
func (q *Queue) Snapshot(guildID string) (int, []storage.Track, error) {
	return q.store.Playlist(guildID)
}

// TotalLength returns the summed track length in milliseconds.
func (q *Queue) TotalLength(guildID string) (int64, error) {
	return q.store.SumLengths(guildID)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
