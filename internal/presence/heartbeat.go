package presence

import (
	"time"

	"github.com/Faultbox/universed/internal/metrics"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

// SendHeartbeats sends a Heartbeat packet to every logged-in session whose
// last heartbeat was sent at least interval ago (or never), and stamps
// LastHeartbeatSent. Called once per tick from the main loop, never from
// inside a handler.
func SendHeartbeats(now time.Time, interval time.Duration, reg *session.Registry, conns map[session.ConnID]Sender) {
	for connID, rec := range reg.Snapshot() {
		if rec.Dead || rec.Entity.IsNone() {
			continue
		}
		if !rec.LastHeartbeatSent.IsZero() && now.Sub(rec.LastHeartbeatSent) < interval {
			continue
		}
		conn, ok := conns[connID]
		if !ok {
			continue
		}
		p := protocol.New(protocol.Heartbeat)
		if err := conn.Send(p); err != nil {
			reg.MarkDead(connID)
			continue
		}
		rec.LastHeartbeatSent = now
		metrics.HeartbeatsSent.Inc()
	}
}
