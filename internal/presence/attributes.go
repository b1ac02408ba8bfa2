package presence

import (
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

// BroadcastAttributeChange re-sends an AttributeChange packet to every
// other live session. Changing a universe attribute (e.g. whether tourists
// are currently allowed to log in) is an admin-only operation enforced by
// the caller; this just fans the accepted change out.
func BroadcastAttributeChange(varID protocol.VarID, value uint32, reg *session.Registry, conns map[session.ConnID]Sender, excludeConn session.ConnID) {
	p := protocol.New(protocol.AttributeChange)
	p.AddVar(protocol.UintVar(varID, value))

	for connID, rec := range reg.Snapshot() {
		if connID == excludeConn || rec.Dead || rec.Entity.IsNone() {
			continue
		}
		if conn, ok := conns[connID]; ok {
			_ = conn.Send(p)
		}
	}
}
