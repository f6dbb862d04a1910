/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package protocol

// Type is the wire tag of an event.
type Type string

const (
	TypePlayerJoin   Type = "PLAYER_JOIN"
	TypePlayerUpdate Type = "PLAYER_UPDATE"
	TypeSyncState    Type = "SYNC_STATE"
	TypeHostStart    Type = "HOST_START"
	TypeHostEnd      Type = "HOST_END"
)

// Event is one of PlayerJoin, PlayerUpdate, SyncState, HostStart or HostEnd.
// The set is closed.
type Event interface {
	Type() Type
	event()
}

// PlayerJoin is sent by a student when it enters a room.
type PlayerJoin struct {
	Player Player
}

// PlayerUpdate carries a student's own score and lives.
type PlayerUpdate struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
	Lives int    `json:"lives"`
}

// SyncState is the host's full snapshot.
type SyncState struct {
	State GameState
}

// HostStart moves the room to PLAYING.
type HostStart struct {
	StartTime int64 `json:"startTime"`
}

// HostEnd moves the room to FINISHED.
type HostEnd struct{}

func (PlayerJoin) Type() Type   { return TypePlayerJoin }
func (PlayerUpdate) Type() Type { return TypePlayerUpdate }
func (SyncState) Type() Type    { return TypeSyncState }
func (HostStart) Type() Type    { return TypeHostStart }
func (HostEnd) Type() Type      { return TypeHostEnd }

func (PlayerJoin) event()   {}
func (PlayerUpdate) event() {}
func (SyncState) event()    {}
func (HostStart) event()    {}
func (HostEnd) event()      {}
