// Package matrix provides the optional Matrix chat front end: every text
// message in an allowed room flows through the same session manager and
// conversation engine as the terminal.
package matrix

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// Config holds Matrix client configuration.
type Config struct {
	Homeserver  string
	UserID      string
	AccessToken string
	// Rooms is the list of room IDs where Riko listens and replies.
	Rooms []string
	// DB is an optional SQLite connection used to persist the sync token
	// (next_batch) across restarts. When nil, an in-memory store is used
	// and room history will replay on every restart.
	DB *sql.DB
}

// Client wraps the mautrix client.
type Client struct {
	client     *mautrix.Client
	config     *Config
	stopCh     chan struct{}
	msgHandler MessageHandler
}

// MessageHandler processes one inbound text message.
type MessageHandler func(ctx context.Context, roomID, sender, body string)

// New creates a Matrix client.
func New(config *Config) (*Client, error) {
	client, err := mautrix.NewClient(config.Homeserver, id.UserID(config.UserID), config.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("matrix: create client: %w", err)
	}

	c := &Client{
		client: client,
		config: config,
		stopCh: make(chan struct{}),
	}

	// Attach a persistent sync store so Riko resumes from the last known
	// position after a restart instead of replaying room history and
	// re-answering old messages.
	if config.DB != nil {
		client.Store = newDBSyncStore(config.DB)
		slog.Info("matrix sync store: using persistent SQLite store")
	} else {
		slog.Warn("matrix sync store: no DB configured, history will replay on restart")
	}

	return c, nil
}

// Start joins the configured rooms and begins syncing in the background.
func (c *Client) Start(ctx context.Context, handler MessageHandler) error {
	c.msgHandler = handler

	syncer := c.client.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, c.handleMessage)

	for _, roomID := range c.config.Rooms {
		if err := c.joinRoom(ctx, id.RoomID(roomID)); err != nil {
			return fmt.Errorf("matrix: join room %s: %w", roomID, err)
		}
	}

	// Sync with exponential back-off reconnection. Without retries a
	// transient homeserver error would silently kill the sync goroutine and
	// leave Riko deaf to all new messages.
	go func() {
		const (
			backoffMin = 2 * time.Second
			backoffMax = 5 * time.Minute
		)
		backoff := backoffMin
		for {
			backoff = backoffMin
			if err := c.client.Sync(); err != nil {
				select {
				case <-c.stopCh:
					return
				default:
				}
				slog.Error("matrix sync stopped, reconnecting", "err", err, "backoff", backoff)
				select {
				case <-c.stopCh:
					return
				case <-time.After(backoff):
				}
				backoff *= 2
				if backoff > backoffMax {
					backoff = backoffMax
				}
				continue
			}
			// Sync returned nil, a clean StopSync.
			return
		}
	}()

	return nil
}

// Stop stops the sync loop.
func (c *Client) Stop() {
	close(c.stopCh)
	c.client.StopSync()
}

// SendText sends a plain text message to a room.
func (c *Client) SendText(ctx context.Context, roomID, message string) error {
	_, err := c.client.SendText(ctx, id.RoomID(roomID), message)
	if err != nil {
		return fmt.Errorf("matrix: send message: %w", err)
	}
	return nil
}

// SendNotice sends a notice (less intrusive than a normal message).
func (c *Client) SendNotice(ctx context.Context, roomID, message string) error {
	content := event.MessageEventContent{
		MsgType: event.MsgNotice,
		Body:    message,
	}
	_, err := c.client.SendMessageEvent(ctx, id.RoomID(roomID), event.EventMessage, &content)
	if err != nil {
		return fmt.Errorf("matrix: send notice: %w", err)
	}
	return nil
}

// SetTyping toggles the typing indicator, Riko's "thinking..." cue.
func (c *Client) SetTyping(ctx context.Context, roomID string, typing bool, timeout time.Duration) error {
	_, err := c.client.UserTyping(ctx, id.RoomID(roomID), typing, timeout)
	if err != nil {
		return fmt.Errorf("matrix: set typing: %w", err)
	}
	return nil
}

// AllowedRoom reports whether Riko is configured to answer in roomID.
func (c *Client) AllowedRoom(roomID string) bool {
	for _, r := range c.config.Rooms {
		if r == roomID {
			return true
		}
	}
	return false
}

// handleMessage filters inbound events down to foreign text messages in
// allowed rooms and forwards them to the registered handler.
func (c *Client) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == id.UserID(c.config.UserID) {
		return
	}

	msgContent := evt.Content.AsMessage()
	if msgContent == nil || msgContent.MsgType != event.MsgText {
		return
	}

	if !c.AllowedRoom(evt.RoomID.String()) {
		return
	}

	if c.msgHandler != nil {
		c.msgHandler(ctx, evt.RoomID.String(), evt.Sender.String(), msgContent.Body)
	}
}

// joinRoom attempts to join a room, tolerating prior membership.
func (c *Client) joinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := c.client.JoinRoomByID(ctx, roomID)
	if err != nil {
		// M_FORBIDDEN is returned when the account is already a member of
		// the room (or genuinely barred, which the sync loop will surface).
		if errors.Is(err, mautrix.MForbidden) {
			slog.Warn("matrix: join room forbidden, continuing", "room", roomID)
			return nil
		}
		return err
	}
	return nil
}
