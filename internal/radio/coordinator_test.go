package radio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"atlas-bot/internal/audionode"
	"atlas-bot/internal/storage"
)

type fakeNode struct {
	mu        sync.Mutex
	played    []string
	stopped   int
	destroyed int
	paused    bool
	volume    int
	noMatches bool
}

func (n *fakeNode) Resolve(query string) (*audionode.LoadResult, error) {
	if n.noMatches {
		return nil, nil
	}
	return &audionode.LoadResult{
		Tracks: []audionode.ResolvedTrack{{ID: "id|" + query, Track: storage.Track{URL: query}}},
	}, nil
}

func (n *fakeNode) Play(guildID, trackID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.played = append(n.played, trackID)
	return nil
}

func (n *fakeNode) Stop(guildID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped++
	return nil
}

func (n *fakeNode) SetPaused(guildID string, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paused = paused
	return nil
}

func (n *fakeNode) SetVolume(guildID string, volume int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = volume
	return nil
}

func (n *fakeNode) Destroy(guildID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destroyed++
	return nil
}

func (n *fakeNode) playedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.played)
}

type fakeVoice struct {
	mu     sync.Mutex
	joined []string
	left   []string
}

func (v *fakeVoice) JoinVoice(guildID, channelID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joined = append(v.joined, channelID)
	return nil
}

func (v *fakeVoice) LeaveVoice(guildID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.left = append(v.left, guildID)
	return nil
}

type fakeRenderer struct {
	mu      sync.Mutex
	renders int
}

func (r *fakeRenderer) RenderControls(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
}

func newTestCoordinator(t *testing.T) (*Coordinator, *Queue, *fakeNode, *fakeVoice) {
	t.Helper()
	q := newTestQueue(t)
	node := &fakeNode{}
	voice := &fakeVoice{}
	return NewCoordinator(q, node, voice), q, node, voice
}

func TestJoinRejectsSecondChannel(t *testing.T) {
	c, _, _, voice := newTestCoordinator(t)

	if err := c.Join("g1", "vc1", "tc1"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := c.Join("g1", "vc2", "tc1"); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("Join other channel = %v, want ErrAlreadyConnected", err)
	}

	// Joining the occupied channel again only rebinds the text channel.
	if err := c.Join("g1", "vc1", "tc2"); err != nil {
		t.Fatalf("Join same channel: %v", err)
	}
	sess, _ := c.Session("g1")
	if sess.TextChannelID != "tc2" {
		t.Errorf("text channel = %q, want tc2", sess.TextChannelID)
	}
	if len(voice.joined) != 1 {
		t.Errorf("gateway joins = %d, want 1", len(voice.joined))
	}
}

func TestRejoinMovesSession(t *testing.T) {
	c, _, node, voice := newTestCoordinator(t)

	if err := c.Join("g1", "vc1", "tc1"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := c.Rejoin("g1", "vc2", "tc1"); err != nil {
		t.Fatalf("Rejoin: %v", err)
	}

	sess, ok := c.Session("g1")
	if !ok || sess.VoiceChannelID != "vc2" {
		t.Fatalf("session channel = %v, want vc2", sess.VoiceChannelID)
	}
	if node.destroyed != 1 || len(voice.left) != 1 {
		t.Errorf("old session not torn down: destroys=%d leaves=%d", node.destroyed, len(voice.left))
	}
}

func TestPlayNext(t *testing.T) {
	c, q, node, _ := newTestCoordinator(t)
	renderer := &fakeRenderer{}
	c.SetRenderer(renderer)

	if _, err := c.PlayNext("g1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("PlayNext disconnected = %v, want ErrNotConnected", err)
	}

	if err := c.Join("g1", "vc1", "tc1"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := c.PlayNext("g1"); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("PlayNext empty = %v, want ErrQueueEmpty", err)
	}

	fill(t, q, "g1", "a")
	played, err := c.PlayNext("g1")
	if err != nil {
		t.Fatalf("PlayNext: %v", err)
	}
	if played.Title != "a" {
		t.Errorf("played = %q, want a", played.Title)
	}
	if node.playedCount() != 1 || node.played[0] != "id|https://example.com/a" {
		t.Errorf("node played = %v", node.played)
	}
	if !c.Playing("g1") {
		t.Error("Playing = false after PlayNext")
	}
	if renderer.renders != 1 {
		t.Errorf("renders = %d, want 1", renderer.renders)
	}
}

func TestPlayNextUnresolvable(t *testing.T) {
	c, q, node, _ := newTestCoordinator(t)
	node.noMatches = true

	_ = c.Join("g1", "vc1", "tc1")
	fill(t, q, "g1", "a")

	if _, err := c.PlayNext("g1"); !errors.Is(err, ErrTrackNotFound) {
		t.Fatalf("PlayNext = %v, want ErrTrackNotFound", err)
	}
	// The failing track stays queued; resolution errors never mutate state.
	assertOrder(t, q, "g1", "a")
}

func TestHandleTrackEndAdvances(t *testing.T) {
	c, q, node, _ := newTestCoordinator(t)

	_ = c.Join("g1", "vc1", "tc1")
	fill(t, q, "g1", "a", "b")
	if _, err := c.PlayNext("g1"); err != nil {
		t.Fatalf("PlayNext: %v", err)
	}

	c.HandleTrackEnd("g1")
	if node.playedCount() != 2 {
		t.Fatalf("played = %v, want two tracks", node.played)
	}
	assertOrder(t, q, "g1", "b", "a")
}

func TestHandleTrackEndExhaustionTearsDown(t *testing.T) {
	c, q, node, voice := newTestCoordinator(t)

	_ = c.Join("g1", "vc1", "tc1")
	_ = q.SetLoop("g1", storage.LoopNone)
	fill(t, q, "g1", "a")
	if _, err := c.PlayNext("g1"); err != nil {
		t.Fatalf("PlayNext: %v", err)
	}

	c.HandleTrackEnd("g1")
	if c.Connected("g1") {
		t.Error("still connected after exhaustion")
	}
	if node.destroyed != 1 || len(voice.left) != 1 {
		t.Errorf("teardown incomplete: destroys=%d leaves=%d", node.destroyed, len(voice.left))
	}
}

func TestSkip(t *testing.T) {
	c, q, node, _ := newTestCoordinator(t)

	if err := c.Skip("g1"); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("Skip idle = %v, want ErrNotPlaying", err)
	}

	_ = c.Join("g1", "vc1", "tc1")
	fill(t, q, "g1", "a")
	_, _ = c.PlayNext("g1")

	if err := c.Skip("g1"); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if node.stopped != 1 {
		t.Errorf("stops = %d, want 1", node.stopped)
	}
}

func TestGraceTimerTearsDownEmptyChannel(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	c.SetGraceDelay(20 * time.Millisecond)

	_ = c.Join("g1", "vc1", "tc1")
	c.HandleVoiceOccupancy("g1", 0)

	deadline := time.After(time.Second)
	for c.Connected("g1") {
		select {
		case <-deadline:
			t.Fatal("session survived the grace period")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGraceTimerCancelledByReturningListener(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	c.SetGraceDelay(20 * time.Millisecond)

	_ = c.Join("g1", "vc1", "tc1")
	c.HandleVoiceOccupancy("g1", 0)
	c.HandleVoiceOccupancy("g1", 1)

	time.Sleep(60 * time.Millisecond)
	if !c.Connected("g1") {
		t.Error("session torn down even though a listener returned")
	}
}

func TestVolumeClampAndAdjust(t *testing.T) {
	c, _, node, _ := newTestCoordinator(t)
	_ = c.Join("g1", "vc1", "tc1")

	applied, err := c.SetVolume("g1", 150)
	if err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if applied != 100 || node.volume != 100 {
		t.Errorf("applied = %d node = %d, want 100", applied, node.volume)
	}

	applied, err = c.AdjustVolume("g1", -30)
	if err != nil {
		t.Fatalf("AdjustVolume: %v", err)
	}
	if applied != 70 {
		t.Errorf("applied = %d, want 70", applied)
	}

	applied, _ = c.AdjustVolume("g1", -100)
	if applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
}

func TestTogglePause(t *testing.T) {
	c, _, node, _ := newTestCoordinator(t)

	if _, err := c.TogglePause("g1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("TogglePause idle = %v, want ErrNotConnected", err)
	}

	_ = c.Join("g1", "vc1", "tc1")
	paused, err := c.TogglePause("g1")
	if err != nil || !paused {
		t.Fatalf("TogglePause = (%v, %v), want (true, nil)", paused, err)
	}
	if !node.paused {
		t.Error("node not paused")
	}

	paused, _ = c.TogglePause("g1")
	if paused {
		t.Error("second toggle should resume")
	}
}
