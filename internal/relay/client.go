package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("relay: connection closed")

// Client is one nick's connection to a relay. It satisfies host.Transport.
type Client struct {
	nick string
	ws   *websocket.Conn

	wmu    sync.Mutex
	closed bool

	frames chan Frame
	done   chan struct{}
	err    error
}

// Dial joins the relay at base (ws:// or wss://) as nick.
func Dial(ctx context.Context, base, nick string) (*Client, error) {
	u := strings.TrimRight(base, "/") + "/ws/" + url.PathEscape(nick)
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("relay dial %s: %s", u, resp.Status)
		}
		return nil, fmt.Errorf("relay dial %s: %w", u, err)
	}
	c := &Client{
		nick:   nick,
		ws:     ws,
		frames: make(chan Frame, 64),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Nick returns the nick the client joined as.
func (c *Client) Nick() string { return c.nick }

// Send delivers text to the nick to.
func (c *Client) Send(to, text string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.ws.WriteJSON(Frame{To: to, Text: text})
}

// Frames yields every frame received. It is closed when the connection ends.
func (c *Client) Frames() <-chan Frame { return c.frames }

// Done is closed once the read loop has stopped; Err then reports why.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the error that ended the connection, nil after a clean close.
func (c *Client) Err() error {
	<-c.done
	return c.err
}

// Close leaves the relay.
func (c *Client) Close() error {
	c.wmu.Lock()
	if c.closed {
		c.wmu.Unlock()
		return nil
	}
	c.closed = true
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.wmu.Unlock()
	return c.ws.Close()
}

func (c *Client) readLoop() {
	defer close(c.frames)
	defer close(c.done)
	for {
		var f Frame
		if err := c.ws.ReadJSON(&f); err != nil {
			c.wmu.Lock()
			closed := c.closed
			c.wmu.Unlock()
			if !closed && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				c.err = err
			}
			return
		}
		c.frames <- f
	}
}
