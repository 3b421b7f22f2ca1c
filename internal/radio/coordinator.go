package radio

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"atlas-bot/internal/audionode"
	"atlas-bot/internal/storage"
)

const (
	// DefaultVolume is what the audio node resets to on every fresh join;
	// volume is session state and is never persisted.
	DefaultVolume = 100

	// DefaultGraceDelay is how long an empty voice channel is tolerated
	// before the session is torn down.
	DefaultGraceDelay = 15 * time.Second
)

var (
	ErrAlreadyConnected = errors.New("already connected to a different voice channel")
	ErrNotConnected     = errors.New("the radio isn't currently active")
	ErrNotPlaying       = errors.New("the radio isn't currently playing anything")
	ErrQueueEmpty       = errors.New("the current playlist is empty")
	ErrTrackNotFound    = errors.New("could not find the song or playlist")
)

// AudioNode is the slice of the audio node client the coordinator drives.
type AudioNode interface {
	Resolve(query string) (*audionode.LoadResult, error)
	Play(guildID, trackID string) error
	Stop(guildID string) error
	SetPaused(guildID string, paused bool) error
	SetVolume(guildID string, volume int) error
	Destroy(guildID string) error
}

// VoiceGateway joins and leaves voice channels on the chat gateway.
type VoiceGateway interface {
	JoinVoice(guildID, channelID string) error
	LeaveVoice(guildID string) error
}

// ControlRenderer re-renders a guild's now-playing control message. The
// renderer is registered by the composition root after the Discord layer is
// built; a nil renderer is a no-op.
type ControlRenderer interface {
	RenderControls(guildID string)
}

// PlayerSession is the ephemeral per-guild state of an active voice
// connection. It is never persisted; everything here is reconstructible from
// the queue document plus defaults.
type PlayerSession struct {
	GuildID          string
	VoiceChannelID   string
	TextChannelID    string
	ControlMessageID string
	Paused           bool
	Playing          bool
	Volume           int
}

type session struct {
	PlayerSession
	graceTimer *time.Timer
}

// Coordinator bridges the queue engine to the external audio node. One
// instance serves all guilds; sessions are created on voice join and
// destroyed on leave, track exhaustion, or the empty-channel grace timeout.
type Coordinator struct {
	mu       sync.Mutex
	queue    *Queue
	node     AudioNode
	voice    VoiceGateway
	renderer ControlRenderer
	sessions map[string]*session
	grace    time.Duration
}

func NewCoordinator(queue *Queue, node AudioNode, voice VoiceGateway) *Coordinator {
	return &Coordinator{
		queue:    queue,
		node:     node,
		voice:    voice,
		sessions: make(map[string]*session),
		grace:    DefaultGraceDelay,
	}
}

// SetVoiceGateway registers the gateway used for voice joins. The gateway is
// built after the coordinator, so it is injected late by the composition
// root.
func (c *Coordinator) SetVoiceGateway(v VoiceGateway) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = v
}

// SetRenderer registers the control-message renderer.
func (c *Coordinator) SetRenderer(r ControlRenderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderer = r
}

// SetGraceDelay overrides the empty-channel grace period.
func (c *Coordinator) SetGraceDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grace = d
}

// Join connects to a voice channel. Joining while connected to a different
// channel is an error surfaced to the user; an explicit leave is required
// first. Joining the channel the bot already occupies only rebinds the text
// channel.
func (c *Coordinator) Join(guildID, voiceChannelID, textChannelID string) error {
	c.mu.Lock()
	if sess, ok := c.sessions[guildID]; ok {
		if sess.VoiceChannelID != voiceChannelID {
			c.mu.Unlock()
			return ErrAlreadyConnected
		}
		sess.TextChannelID = textChannelID
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.connect(guildID, voiceChannelID, textChannelID)
}

// Rejoin moves the session to the caller's channel, tearing down any
// existing connection first. Used by /play, which follows the user.
func (c *Coordinator) Rejoin(guildID, voiceChannelID, textChannelID string) error {
	c.mu.Lock()
	sess, ok := c.sessions[guildID]
	if ok && sess.VoiceChannelID == voiceChannelID {
		sess.TextChannelID = textChannelID
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if ok {
		c.Teardown(guildID)
	}
	return c.connect(guildID, voiceChannelID, textChannelID)
}

func (c *Coordinator) connect(guildID, voiceChannelID, textChannelID string) error {
	if err := c.voice.JoinVoice(guildID, voiceChannelID); err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	c.mu.Lock()
	c.sessions[guildID] = &session{PlayerSession: PlayerSession{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		Volume:         DefaultVolume,
	}}
	c.mu.Unlock()

	log.Printf("[INFO] [%s] Radio connected to voice channel %s", guildID, voiceChannelID)
	return nil
}

// PlayNext resolves the head track through the audio node and starts it.
// Resolution failures are returned to the caller, never swallowed; the queue
// is left unchanged.
func (c *Coordinator) PlayNext(guildID string) (*storage.Track, error) {
	if !c.Connected(guildID) {
		return nil, ErrNotConnected
	}

	head, err := c.queue.First(guildID, 1)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, ErrQueueEmpty
	}
	track := head[0]

	res, err := c.node.Resolve(track.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve track: %w", err)
	}
	if res == nil || len(res.Tracks) == 0 {
		return nil, ErrTrackNotFound
	}

	if err := c.node.Play(guildID, res.Tracks[0].ID); err != nil {
		return nil, fmt.Errorf("failed to start playback: %w", err)
	}

	c.mu.Lock()
	renderer := c.renderer
	if sess, ok := c.sessions[guildID]; ok {
		sess.Playing = true
		sess.Paused = false
	}
	c.mu.Unlock()

	log.Printf("[INFO] [%s] Now playing %q (%s)", guildID, track.Title, track.URL)
	if renderer != nil {
		renderer.RenderControls(guildID)
	}
	return &track, nil
}

// HandleTrackEnd advances the queue when the node reports the current track
// finished and either starts the next track or tears the session down.
func (c *Coordinator) HandleTrackEnd(guildID string) {
	if !c.Connected(guildID) {
		return
	}

	next, err := c.queue.OnTrackEnd(guildID)
	if err != nil {
		log.Printf("[ERR] [%s] Queue advance failed: %v", guildID, err)
		c.Teardown(guildID)
		return
	}
	if next == nil {
		log.Printf("[INFO] [%s] Playlist exhausted, disconnecting", guildID)
		c.Teardown(guildID)
		return
	}

	if _, err := c.PlayNext(guildID); err != nil {
		log.Printf("[ERR] [%s] Failed to play next track: %v", guildID, err)
		c.Teardown(guildID)
	}
}

// Skip stops the current track; the node's track-end event drives the
// advance.
func (c *Coordinator) Skip(guildID string) error {
	if !c.Playing(guildID) {
		return ErrNotPlaying
	}
	return c.node.Stop(guildID)
}

// HandleVoiceOccupancy reacts to voice channel population changes.
// humanCount counts non-bot members in the bot's channel: zero starts (or
// restarts) the grace timer, anything else cancels it. Only one timer is
// ever outstanding per guild.
func (c *Coordinator) HandleVoiceOccupancy(guildID string, humanCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[guildID]
	if !ok {
		return
	}

	if sess.graceTimer != nil {
		sess.graceTimer.Stop()
		sess.graceTimer = nil
	}
	if humanCount > 0 {
		return
	}

	log.Printf("[INFO] [%s] Voice channel empty, disconnecting in %v", guildID, c.grace)
	sess.graceTimer = time.AfterFunc(c.grace, func() {
		log.Printf("[INFO] [%s] Grace period expired, tearing down session", guildID)
		c.Teardown(guildID)
	})
}

// TogglePause flips the paused state and reports the new state.
func (c *Coordinator) TogglePause(guildID string) (bool, error) {
	c.mu.Lock()
	sess, ok := c.sessions[guildID]
	if !ok {
		c.mu.Unlock()
		return false, ErrNotConnected
	}
	sess.Paused = !sess.Paused
	paused := sess.Paused
	c.mu.Unlock()

	if err := c.node.SetPaused(guildID, paused); err != nil {
		return paused, fmt.Errorf("failed to set pause: %w", err)
	}
	return paused, nil
}

// SetVolume clamps to [0,100], forwards to the node, and reports the applied
// value.
func (c *Coordinator) SetVolume(guildID string, volume int) (int, error) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	c.mu.Lock()
	sess, ok := c.sessions[guildID]
	if !ok {
		c.mu.Unlock()
		return 0, ErrNotConnected
	}
	sess.Volume = volume
	c.mu.Unlock()

	if err := c.node.SetVolume(guildID, volume); err != nil {
		return volume, fmt.Errorf("failed to set volume: %w", err)
	}
	return volume, nil
}

// AdjustVolume applies a relative volume change.
func (c *Coordinator) AdjustVolume(guildID string, delta int) (int, error) {
	c.mu.Lock()
	sess, ok := c.sessions[guildID]
	if !ok {
		c.mu.Unlock()
		return 0, ErrNotConnected
	}
	current := sess.Volume
	c.mu.Unlock()

	return c.SetVolume(guildID, current+delta)
}

// Teardown destroys the session: stops the node player, leaves voice, and
// forgets all ephemeral state.
func (c *Coordinator) Teardown(guildID string) {
	c.mu.Lock()
	sess, ok := c.sessions[guildID]
	if ok {
		if sess.graceTimer != nil {
			sess.graceTimer.Stop()
		}
		delete(c.sessions, guildID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	if err := c.node.Destroy(guildID); err != nil {
		log.Printf("[WARN] [%s] Failed to destroy node player: %v", guildID, err)
	}
	if err := c.voice.LeaveVoice(guildID); err != nil {
		log.Printf("[WARN] [%s] Failed to leave voice channel: %v", guildID, err)
	}
	log.Printf("[INFO] [%s] Radio session destroyed", guildID)
}

// Session returns a snapshot of the guild's player session.
func (c *Coordinator) Session(guildID string) (PlayerSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[guildID]
	if !ok {
		return PlayerSession{}, false
	}
	return sess.PlayerSession, true
}

// SetControlMessage records the identity of the last-rendered control
// message.
func (c *Coordinator) SetControlMessage(guildID, messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess, ok := c.sessions[guildID]; ok {
		sess.ControlMessageID = messageID
	}
}

// Connected reports whether a session exists for the guild.
func (c *Coordinator) Connected(guildID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sessions[guildID]
	return ok
}

// Playing reports whether the guild session is actively playing.
func (c *Coordinator) Playing(guildID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sess, ok := c.sessions[guildID]
	return ok && sess.Playing
}
