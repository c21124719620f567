package room

import (
	"fmt"

	"github.com/gorilla/websocket"

	"studpoker-server/pkg/playable"
)

// Client is a participant's websocket connection to a table. Events are
// queued on a buffered channel and drained by the websocket write pump; a
// full queue drops the event rather than blocking the game.
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	send chan *playable.Response

	seat    int
	session *Session
}

// NewClient returns a new client for the seat at the session's table
func NewClient(conn *websocket.Conn, session *Session, seat int) *Client {
	return &Client{
		Conn:    conn,
		Close:   make(chan string),
		send:    make(chan *playable.Response, 256),
		seat:    seat,
		session: session,
	}
}

// Send queues an event for the web client. Fire-and-forget.
func (c *Client) Send(key string, data interface{}) {
	select {
	case c.send <- &playable.Response{Key: key, Data: data}:
	default:
	}
}

// SendChan returns the channel the write pump drains
func (c *Client) SendChan() <-chan *playable.Response {
	return c.send
}

// Seat returns the seat this client is connected as
func (c *Client) Seat() int {
	return c.seat
}

// String returns a traceable identifier for the client
func (c *Client) String() string {
	return fmt.Sprintf("%d:%d", c.session.ID(), c.seat)
}

// ReceivedMessage is called when the server receives a message from the
// connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	c.session.Dealer().ReceivedMessage(c, msg)
}
