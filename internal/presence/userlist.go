package presence

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

// noWorldPlaceholder is reported as a session's world name when it isn't
// currently attached to any world.
const noWorldPlaceholder = "NO WORLD"

// Throttled reports whether rec last received a user list within throttle
// of now, in which case a fresh request should be silently dropped instead
// of re-sent.
func Throttled(now time.Time, rec *session.Record, throttle time.Duration) bool {
	return !rec.LastUserListSent.IsZero() && now.Sub(rec.LastUserListSent) < throttle
}

// BuildUserList packs every live, logged-in session into one or more
// PacketGroups bounded by groupBudget bytes. When a session entry would
// overflow the current group, the group is closed with a trailing
// UserListResult{More: 1} and a fresh group started; the very last group
// instead carries UserListResult{More: 0} stamped with now. Admin
// requesters additionally see each session's packed IP address.
func BuildUserList(now time.Time, reg *session.Registry, groupBudget int, requesterIsAdmin bool) []*protocol.PacketGroup {
	var groups []*protocol.PacketGroup
	current := protocol.NewGroup(groupBudget)

	flush := func(more bool) {
		result := protocol.New(protocol.UserListResult)
		if more {
			result.AddVar(protocol.ByteVar(protocol.VarUserListMore, 1))
		} else {
			result.AddVar(protocol.ByteVar(protocol.VarUserListMore, 0))
			result.AddVar(protocol.UintVar(protocol.VarUserList3DayUnknown, uint32(now.Unix())))
		}
		if overflow, err := current.Push(result); err == nil && overflow == nil {
			groups = append(groups, current)
			current = protocol.NewGroup(groupBudget)
			return
		}
		// The result marker itself didn't fit; flush what we have and retry
		// against a clean group so the marker is never dropped.
		groups = append(groups, current)
		current = protocol.NewGroup(groupBudget)
		_, _ = current.Push(result)
		groups = append(groups, current)
		current = protocol.NewGroup(groupBudget)
	}

	for _, rec := range reg.Snapshot() {
		if rec.Dead || rec.Entity.Player == nil {
			continue
		}
		entry := userListEntry(rec, requesterIsAdmin)
		overflow, err := current.Push(entry)
		if err != nil {
			continue
		}
		if overflow != nil {
			flush(true)
			_, _ = current.Push(overflow)
		}
	}

	flush(false)
	return groups
}

func userListEntry(rec *session.Record, includeAddress bool) *protocol.Packet {
	player := rec.Entity.Player
	p := protocol.New(protocol.UserList)
	p.AddVar(protocol.StringVar(protocol.VarUserListName, player.Username))
	p.AddVar(protocol.UintVar(protocol.VarUserListID, player.SessionID))

	var citizenID, privilegeID uint32
	if player.CitizenID != nil {
		citizenID = *player.CitizenID
	}
	if player.PrivilegeID != nil {
		privilegeID = *player.PrivilegeID
	}
	p.AddVar(protocol.UintVar(protocol.VarUserListCitizenID, citizenID))
	p.AddVar(protocol.UintVar(protocol.VarUserListPrivilegeID, privilegeID))
	if includeAddress {
		p.AddVar(protocol.UintVar(protocol.VarUserListAddress, packAddress(rec.RemoteAddr)))
	}
	p.AddVar(protocol.ByteVar(protocol.VarUserListState, 1)) // 1 == online
	p.AddVar(protocol.StringVar(protocol.VarUserListWorldName, noWorldPlaceholder))
	return p
}

// packAddress encodes the IPv4 portion of a "host:port" remote address
// string as a little-endian uint32. A non-IPv4 or unparsable address packs
// to 0 rather than erroring, since the user list must still include the
// session.
func packAddress(remoteAddr string) uint32 {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return 0
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(ip4)
}
