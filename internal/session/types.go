// Package session tracks connected clients: their role, login state, and
// the entity each one is registered as once login succeeds.
package session

import (
	"time"

	"github.com/Faultbox/universed/internal/protocol"
)

// ClientKind classifies a connection by the role it negotiated at login.
// Unknown connections cannot issue any opcode except Login, ServerLogin or
// Heartbeat.
type ClientKind int

const (
	Unknown ClientKind = iota
	UnspecifiedHuman
	Citizen
	Tourist
	Bot
	WorldServer
)

func (k ClientKind) String() string {
	switch k {
	case UnspecifiedHuman:
		return "unspecified-human"
	case Citizen:
		return "citizen"
	case Tourist:
		return "tourist"
	case Bot:
		return "bot"
	case WorldServer:
		return "world-server"
	default:
		return "unknown"
	}
}

// State tracks where a connection is in the login handshake.
type State int

const (
	StatePreLogin State = iota
	StateLoggedIn
)

// PlayerEntity is the registration record for a human or bot client once
// login succeeds. CitizenID and PrivilegeID are nil for tourists and for
// unspecified-human logins that never resolved to a citizen record.
type PlayerEntity struct {
	Build       int32
	SessionID   uint32
	CitizenID   *uint32
	PrivilegeID *uint32
	Username    string
	State       State
}

// WorldServerEntity is the registration record for a world server
// connection: the set of world names it currently hosts.
type WorldServerEntity struct {
	Worlds []string
}

// Entity is the sum type a session resolves to after login: either nothing
// (pre-login), a player, or a world server. Exactly one of Player/World is
// non-nil at any time once a connection has logged in.
type Entity struct {
	Player *PlayerEntity
	World  *WorldServerEntity
}

// IsNone reports whether this entity has not yet been assigned a role.
func (e Entity) IsNone() bool {
	return e.Player == nil && e.World == nil
}

// IsTourist reports whether username follows the tourist naming convention:
// a leading double-quote character, matching the original client behavior
// of quoting tourist display names to visually set them apart from citizens.
func IsTourist(username string) bool {
	return len(username) > 0 && username[0] == '"'
}

// Record is everything the registry tracks about one live connection.
type Record struct {
	SessionID    uint32
	Kind         ClientKind
	Entity       Entity
	RemoteAddr   string
	LastHeartbeatSent time.Time
	LastHeartbeatRecv time.Time
	LastUserListSent  time.Time
	Dead         bool
}

// legalOpcodes lists the opcodes a connection in the given kind/state may
// send. Login and ServerLogin are always legal so a connection can
// (re)authenticate, and Heartbeat is always legal; everything else requires
// having logged in first.
func legalOpcodes(kind ClientKind, state State) map[protocol.PacketType]bool {
	always := map[protocol.PacketType]bool{
		protocol.Login:       true,
		protocol.ServerLogin: true,
		protocol.Heartbeat:   true,
	}
	if state != StateLoggedIn {
		return always
	}
	switch kind {
	case WorldServer:
		for _, op := range []protocol.PacketType{
			protocol.ServerWorldList, protocol.ServerWorldDelete, protocol.WorldStatsUpdate,
			protocol.UserList, protocol.TelegramDeliver,
		} {
			always[op] = true
		}
	default:
		for _, op := range []protocol.PacketType{
			protocol.CitizenInfo, protocol.CitizenLookupByName, protocol.CitizenLookupByNumber,
			protocol.CitizenNext, protocol.CitizenPrev, protocol.CitizenChange, protocol.CitizenAdd,
			protocol.CitizenDelete, protocol.UserList, protocol.AttributeChange,
			protocol.TelegramSend, protocol.TelegramGet, protocol.ContactAdd, protocol.ContactChange,
			protocol.ContactDelete, protocol.ContactList, protocol.SetAFK, protocol.WorldList,
			protocol.WorldLookup,
		} {
			always[op] = true
		}
	}
	return always
}

// IsLegal reports whether opcode may be processed for a connection
// currently in the given kind/state.
func IsLegal(kind ClientKind, state State, opcode protocol.PacketType) bool {
	return legalOpcodes(kind, state)[opcode]
}
