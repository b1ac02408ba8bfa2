// Package presence implements heartbeat, user-list broadcast, attribute
// broadcast, contact notification, and dead-session purge.
package presence

import "github.com/Faultbox/universed/internal/protocol"

// Sender is the narrow transport capability presence needs: enqueue a
// packet or a pre-packed group for the next flush. Both Conn and test
// doubles satisfy it.
type Sender interface {
	Send(p *protocol.Packet) error
	SendGroup(g *protocol.PacketGroup) error
}
