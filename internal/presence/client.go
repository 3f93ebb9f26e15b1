package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Event is one frame pushed over a live connection.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Client is a single live connection. A user may hold several at once
// (multiple tabs or devices), each with its own buffered outbound channel.
type Client struct {
	ID     uuid.UUID
	UserID int

	send      chan Event
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(userID int) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		send:   make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// Events is the channel the connection handler drains.
func (c *Client) Events() <-chan Event {
	return c.send
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Offer queues an event without blocking. Events to a slow or stalled
// connection are dropped; durable notification rows are the guarantee,
// not the push.
func (c *Client) Offer(ev Event) bool {
	select {
	case <-c.done:
		return false
	case c.send <- ev:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}
