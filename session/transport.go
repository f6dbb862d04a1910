/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session connects hosts and students to a relay room and keeps
// their game state in step with the protocol reducers.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/slicebox/protocol"
	"github.com/gorilla/websocket"
)

var ErrDisconnected = errors.New("disconnected from relay")

const (
	outboundBuffer = 64
	inboundBuffer  = 256
	writeWait      = 10 * time.Second
)

// Transport is a relay connection. Send never blocks and never fails from
// the caller's point of view; Events is closed when the connection drops.
type Transport interface {
	Send(ev protocol.Event)
	Events() <-chan protocol.Event
	Close() error
}

// Conn is a Transport over a relay websocket.
type Conn struct {
	ws   *websocket.Conn
	out  chan []byte
	in   chan protocol.Event
	logf func(format string, args ...any)

	done      chan struct{}
	closeOnce sync.Once
}

// WSURL maps a relay base URL (http, https, ws or wss) to the websocket
// endpoint of a room.
func WSURL(baseURL, pin string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported relay scheme %q", u.Scheme)
	}

	if !protocol.ValidPIN(pin) {
		return "", fmt.Errorf("invalid room pin %q", pin)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ninja/" + pin + "/ws"
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}

// Dial joins the relay room for pin. logf may be nil.
func Dial(ctx context.Context, baseURL, pin string, logf func(format string, args ...any)) (*Conn, error) {
	endpoint, err := WSURL(baseURL, pin)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	if logf == nil {
		logf = func(string, ...any) {}
	}

	c := &Conn{
		ws:   ws,
		out:  make(chan []byte, outboundBuffer),
		in:   make(chan protocol.Event, inboundBuffer),
		logf: logf,
		done: make(chan struct{}),
	}

	go c.readLoop()
	go c.writeLoop()

	return c, nil
}

// Send encodes ev and queues it. Frames are dropped when the queue is full
// or the connection is closed.
func (c *Conn) Send(ev protocol.Event) {
	data, err := protocol.Encode(ev)
	if err != nil {
		c.logf("SEND: %v", err)
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.out <- data:
	default:
		c.logf("SEND: Queue full, dropped %s", ev.Type())
	}
}

func (c *Conn) Events() <-chan protocol.Event {
	return c.in
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.in)
	defer c.Close()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logf("RECV: %v", err)
			}
			return
		}

		ev, err := protocol.Decode(data)
		if err != nil {
			c.logf("RECV: Ignoring frame: %v", err)
			continue
		}

		select {
		case c.in <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logf("SEND: %v", err)
			}
		}
	}
}
