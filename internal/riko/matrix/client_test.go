package matrix

import (
	"context"
	"testing"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(&Config{
		Homeserver:  "https://matrix.example.com",
		UserID:      "@riko:example.com",
		AccessToken: "syt_test",
		Rooms:       []string{"!allowed:example.com"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func textEvent(roomID, sender, body string) *event.Event {
	return &event.Event{
		RoomID: id.RoomID(roomID),
		Sender: id.UserID(sender),
		Content: event.Content{
			Parsed: &event.MessageEventContent{
				MsgType: event.MsgText,
				Body:    body,
			},
		},
	}
}

func TestAllowedRoom(t *testing.T) {
	c := newTestClient(t)

	if !c.AllowedRoom("!allowed:example.com") {
		t.Error("configured room should be allowed")
	}
	if c.AllowedRoom("!other:example.com") {
		t.Error("unconfigured room should not be allowed")
	}
}

func TestHandleMessageForwarding(t *testing.T) {
	tests := []struct {
		name        string
		evt         *event.Event
		wantHandled bool
	}{
		{
			name:        "foreign text in allowed room",
			evt:         textEvent("!allowed:example.com", "@alice:example.com", "hi Riko"),
			wantHandled: true,
		},
		{
			name:        "own message ignored",
			evt:         textEvent("!allowed:example.com", "@riko:example.com", "echo"),
			wantHandled: false,
		},
		{
			name:        "message outside allowed rooms ignored",
			evt:         textEvent("!other:example.com", "@alice:example.com", "hi"),
			wantHandled: false,
		},
		{
			name: "non-text message ignored",
			evt: &event.Event{
				RoomID: id.RoomID("!allowed:example.com"),
				Sender: id.UserID("@alice:example.com"),
				Content: event.Content{
					Parsed: &event.MessageEventContent{
						MsgType: event.MsgImage,
						Body:    "cat.png",
					},
				},
			},
			wantHandled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)

			var gotRoom, gotSender, gotBody string
			handled := false
			c.msgHandler = func(_ context.Context, roomID, sender, body string) {
				handled = true
				gotRoom, gotSender, gotBody = roomID, sender, body
			}

			c.handleMessage(context.Background(), tt.evt)

			if handled != tt.wantHandled {
				t.Fatalf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if handled && (gotRoom != "!allowed:example.com" || gotSender != "@alice:example.com" || gotBody != "hi Riko") {
				t.Errorf("forwarded (%q, %q, %q)", gotRoom, gotSender, gotBody)
			}
		})
	}
}
