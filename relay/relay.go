/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package relay is the dumb broadcast backend: one room per PIN, every frame
// a connection sends is delivered to every connection in the room, the
// sender included. Frames are never parsed or stored, so a connection that
// joins late only ever sees what is sent after it arrived.
package relay

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var ErrRoomFull = errors.New("room is full")

const (
	maxFrameSize = 64 << 10
	sendBuffer   = 64
	writeWait    = 10 * time.Second
)

// Client is one websocket connection in a room.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Room fans frames out to its clients.
type Room struct {
	pin string

	mu         sync.RWMutex
	clients    map[*Client]bool
	createdAt  time.Time
	lastActive time.Time
	frames     uint64
}

func newRoom(pin string) *Room {
	now := time.Now()
	return &Room{
		pin:        pin,
		clients:    make(map[*Client]bool),
		createdAt:  now,
		lastActive: now,
	}
}

// broadcast delivers data to every client without blocking. Clients that
// cannot keep up are dropped.
func (r *Room) broadcast(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastActive = time.Now()
	r.frames++

	for client := range r.clients {
		select {
		case client.send <- data:
		default:
			delete(r.clients, client)
			close(client.send)
		}
	}
}

func (r *Room) add(c *Client, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit > 0 && len(r.clients) >= limit {
		return ErrRoomFull
	}
	r.clients[c] = true
	r.lastActive = time.Now()
	return nil
}

// remove detaches c and reports how many clients remain.
func (r *Room) remove(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		close(c.send)
	}
	r.lastActive = time.Now()
	return len(r.clients)
}

// closeAll disconnects all clients of this room (used by the reaper).
func (r *Room) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for c := range r.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(r.clients, c)
	}
}

// RoomInfo is what /rooms reports.
type RoomInfo struct {
	PIN        string    `json:"pin"`
	Clients    int       `json:"clients"`
	Frames     uint64    `json:"frames"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

func (r *Room) info() RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RoomInfo{
		PIN:        r.pin,
		Clients:    len(r.clients),
		Frames:     r.frames,
		CreatedAt:  r.createdAt,
		LastActive: r.lastActive,
	}
}

// Manager holds the rooms keyed by PIN.
type Manager struct {
	// Logf receives connection lifecycle messages. Optional.
	Logf func(format string, args ...any)
	// MaxClients caps each room; 0 means unlimited.
	MaxClients int

	mu          sync.Mutex
	rooms       map[string]*Room
	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewManager returns a manager that reaps rooms idle for longer than
// idleTimeout. Zero disables reaping.
func NewManager(idleTimeout time.Duration) *Manager {
	m := &Manager{
		rooms:       make(map[string]*Room),
		idleTimeout: idleTimeout,
		stop:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go m.reaperLoop()
	}
	return m
}

// Close stops the reaper and disconnects everybody.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.closeAll()
	}
}

func (m *Manager) logf(format string, args ...any) {
	if m.Logf != nil {
		m.Logf(format, args...)
	}
}

// join attaches c to the room for pin, creating the room if needed.
func (m *Manager) join(pin string, c *Client) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[pin]
	if !ok {
		r = newRoom(pin)
		m.rooms[pin] = r
		m.logf("ROOMS: Opened room %s", pin)
	}
	if err := r.add(c, m.MaxClients); err != nil {
		return nil, err
	}
	return r, nil
}

// leave detaches c and drops the room once it is empty.
func (m *Manager) leave(r *Room, c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.remove(c) > 0 {
		return
	}
	if m.rooms[r.pin] == r {
		delete(m.rooms, r.pin)
		m.logf("ROOMS: Closed empty room %s", r.pin)
	}
}

// Full reports whether a room exists and has no space left.
func (m *Manager) Full(pin string) bool {
	if m.MaxClients <= 0 {
		return false
	}

	m.mu.Lock()
	r, ok := m.rooms[pin]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return r.info().Clients >= m.MaxClients
}

// Exists reports whether pin has an open room.
func (m *Manager) Exists(pin string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.rooms[pin]
	return ok
}

// Rooms lists open rooms ordered by PIN.
func (m *Manager) Rooms() []RoomInfo {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PIN < out[j].PIN })
	return out
}

// reaperLoop periodically removes rooms that have been idle longer than idleTimeout.
func (m *Manager) reaperLoop() {
	ticker := time.NewTicker(m.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reap(time.Now().Add(-m.idleTimeout))
		}
	}
}

func (m *Manager) reap(cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for pin, r := range m.rooms {
		if r.info().LastActive.Before(cutoff) {
			delete(m.rooms, pin)
			m.logf("ROOMS: Reaped idle room %s", pin)
			go r.closeAll()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and relays frames for the room named by the
// :pin route parameter. valid filters PINs before anything is created.
func (m *Manager) ServeWS(valid func(pin string) bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		pin := ps.ByName("pin")
		if pin == "" || (valid != nil && !valid(pin)) {
			http.Error(w, "invalid room pin", http.StatusBadRequest)
			return
		}
		if m.Full(pin) {
			http.Error(w, ErrRoomFull.Error(), http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logf("ROOMS: Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan []byte, sendBuffer),
			addr: r.RemoteAddr,
		}

		room, err := m.join(pin, client)
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
				time.Now().Add(writeWait))
			_ = conn.Close()
			return
		}
		m.logf("ROOMS: %s joined room %s", client.addr, pin)

		go client.writePump()
		client.readPump(m, room)
	}
}

func (c *Client) readPump(m *Manager, r *Room) {
	defer func() {
		m.leave(r, c)
		_ = c.conn.Close()
		m.logf("ROOMS: %s left room %s", c.addr, r.pin)
	}()

	c.conn.SetReadLimit(maxFrameSize)

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		r.broadcast(data)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
