// Package audionode is the client for the external audio playback node. The
// node owns track resolution and voice-channel audio; the bot only issues
// commands over the node's websocket and reads playback events back.
package audionode

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/gorilla/websocket"

	"atlas-bot/internal/storage"
	"atlas-bot/pkg/retrylimit"
)

// Config holds the node connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	UserID   string // the bot's user ID, required by the node handshake
}

// ResolvedTrack is a track the node can play: the display metadata plus the
// node's opaque playable handle.
type ResolvedTrack struct {
	storage.Track
	ID string
}

// LoadResult is the outcome of a resolution query: one track, a whole
// playlist, or nothing.
type LoadResult struct {
	Tracks       []ResolvedTrack
	PlaylistName string // set only for playlist loads
}

// IsPlaylist reports whether the result came from a playlist load.
func (r *LoadResult) IsPlaylist() bool {
	return r.PlaylistName != ""
}

// Client talks to one audio node. Safe for concurrent use; outbound ops are
// serialized on the socket.
type Client struct {
	cfg   Config
	httpc *http.Client

	mu        sync.Mutex
	ws        *websocket.Conn
	connected bool

	trackEnd     func(guildID string)
	disconnected func(err error)
}

func New(cfg Config) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetUserID fills in the bot user ID once the gateway session knows it. Must
// be called before Connect.
func (c *Client) SetUserID(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.UserID = userID
}

// OnTrackEnd registers the handler for the node's track-end events. Must be
// called before Connect.
func (c *Client) OnTrackEnd(fn func(guildID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trackEnd = fn
}

// OnDisconnect registers the handler invoked when the node socket drops
// mid-session.
func (c *Client) OnDisconnect(fn func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = fn
}

// Connect dials the node's websocket and starts the event reader.
func (c *Client) Connect(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", c.cfg.Password)
	header.Set("User-Id", c.cfg.UserID)
	header.Set("Client-Name", "atlas-bot")

	endpoint := fmt.Sprintf("ws://%s:%d/", c.cfg.Host, c.cfg.Port)
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return fmt.Errorf("failed to dial audio node: %w", err)
	}

	c.mu.Lock()
	c.ws = ws
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(ws)

	log.Printf("[INFO] Connected to audio node at %s:%d", c.cfg.Host, c.cfg.Port)
	return nil
}

// ConnectWithRetry keeps dialing with backoff until the node accepts or the
// context ends. Used only at startup; a mid-session drop is fatal for the
// affected sessions and is not retried here.
func (c *Client) ConnectWithRetry(ctx context.Context) error {
	lim := retrylimit.NewLimiter(1, 1)
	return retrylimit.WithRetry(ctx, func() error {
		return c.Connect(ctx)
	}, lim)
}

// Close shuts the node socket down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connected = false
	if c.ws != nil {
		err := c.ws.Close()
		c.ws = nil
		return err
	}
	return nil
}

// Resolve asks the node to load tracks for a query (a source URL or a search
// term). A nil result with nil error means the node found nothing.
func (c *Client) Resolve(query string) (*LoadResult, error) {
	endpoint := fmt.Sprintf("http://%s:%d/loadtracks?identifier=%s",
		c.cfg.Host, c.cfg.Port, url.QueryEscape(query))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.cfg.Password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loadtracks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loadtracks returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseLoadResult(body)
}

func parseLoadResult(body []byte) (*LoadResult, error) {
	js, err := simplejson.NewJson(body)
	if err != nil {
		return nil, fmt.Errorf("invalid loadtracks response: %w", err)
	}

	loadType := js.Get("loadType").MustString()
	if loadType == "NO_MATCHES" || loadType == "LOAD_FAILED" {
		return nil, nil
	}

	rawTracks := js.Get("tracks")
	count := len(rawTracks.MustArray())
	if count == 0 {
		return nil, nil
	}

	result := &LoadResult{Tracks: make([]ResolvedTrack, 0, count)}
	if loadType == "PLAYLIST_LOADED" {
		result.PlaylistName = js.GetPath("playlistInfo", "name").MustString()
	}

	for i := 0; i < count; i++ {
		t := rawTracks.GetIndex(i)
		info := t.Get("info")

		length := info.Get("length").MustInt64()
		if info.Get("isStream").MustBool() {
			length = 0 // live streams carry no usable duration
		}

		result.Tracks = append(result.Tracks, ResolvedTrack{
			ID: t.Get("track").MustString(),
			Track: storage.Track{
				URL:    info.Get("uri").MustString(),
				Title:  info.Get("title").MustString(),
				Author: info.Get("author").MustString(),
				Length: length,
			},
		})
	}
	return result, nil
}

// Play starts a resolved track for a guild.
func (c *Client) Play(guildID, trackID string) error {
	return c.send(map[string]interface{}{
		"op":      "play",
		"guildId": guildID,
		"track":   trackID,
	})
}

// Stop stops the guild's current track. The node answers with a track-end
// event, which is what drives the queue advance.
func (c *Client) Stop(guildID string) error {
	return c.send(map[string]interface{}{
		"op":      "stop",
		"guildId": guildID,
	})
}

// SetPaused pauses or resumes the guild's playback.
func (c *Client) SetPaused(guildID string, paused bool) error {
	return c.send(map[string]interface{}{
		"op":      "pause",
		"guildId": guildID,
		"pause":   paused,
	})
}

// SetVolume sets the guild's playback volume (0-100).
func (c *Client) SetVolume(guildID string, volume int) error {
	return c.send(map[string]interface{}{
		"op":      "volume",
		"guildId": guildID,
		"volume":  volume,
	})
}

// Destroy drops the guild's node player entirely.
func (c *Client) Destroy(guildID string) error {
	return c.send(map[string]interface{}{
		"op":      "destroy",
		"guildId": guildID,
	})
}

// SubmitVoiceUpdate forwards the gateway voice credentials the node needs to
// take over the guild's voice connection.
func (c *Client) SubmitVoiceUpdate(guildID, sessionID, token, endpoint string) error {
	return c.send(map[string]interface{}{
		"op":        "voiceUpdate",
		"guildId":   guildID,
		"sessionId": sessionID,
		"event": map[string]interface{}{
			"token":    token,
			"guild_id": guildID,
			"endpoint": endpoint,
		},
	})
}

func (c *Client) send(payload map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return fmt.Errorf("audio node is not connected")
	}
	return c.ws.WriteJSON(payload)
}

// readLoop dispatches inbound node events until the socket dies.
func (c *Client) readLoop(ws *websocket.Conn) {
	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			wasConnected := c.connected
			c.connected = false
			handler := c.disconnected
			c.mu.Unlock()

			if wasConnected {
				log.Printf("[ERR] Audio node connection lost: %v", err)
				if handler != nil {
					handler(err)
				}
			}
			return
		}

		js, err := simplejson.NewJson(msg)
		if err != nil {
			log.Printf("[WARN] Malformed audio node frame: %v", err)
			continue
		}

		if js.Get("op").MustString() != "event" {
			continue
		}

		switch js.Get("type").MustString() {
		case "TrackEndEvent":
			// REPLACED means we started another track ourselves; advancing
			// again would double-skip.
			if js.Get("reason").MustString() == "REPLACED" {
				continue
			}
			guildID := js.Get("guildId").MustString()

			c.mu.Lock()
			handler := c.trackEnd
			c.mu.Unlock()

			if handler != nil {
				handler(guildID)
			}
		case "TrackExceptionEvent":
			log.Printf("[WARN] [%s] Track exception: %s",
				js.Get("guildId").MustString(), js.Get("error").MustString())
		}
	}
}
