package presence

import (
	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/logger"
	"github.com/Faultbox/universed/internal/metrics"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
	"github.com/Faultbox/universed/internal/worlddir"
	"go.uber.org/zap"
)

// Purge sweeps every session flagged dead, running its teardown cascade
// before removing it from the registry: a world server's worlds are
// delisted, a player's departure is broadcast to the remaining sessions,
// and a citizen's contacts are notified that they've gone offline. Called
// once per tick, after dispatch and before heartbeat, so a handler that
// just killed its own connection doesn't get heartbeated this tick.
func Purge(reg *session.Registry, conns map[session.ConnID]Sender, db database.CitizenDB, worlds *worlddir.Directory) {
	dead := reg.DeadConnIDs()
	if len(dead) == 0 {
		return
	}

	live := reg.Snapshot()
	for _, connID := range dead {
		rec, ok := reg.Get(connID)
		if !ok {
			continue
		}

		switch {
		case rec.Entity.World != nil:
			removed := worlds.RemoveAllOwnedBy(connID)
			logger.Named("presence").Info("world server disconnected",
				zap.String("remote", rec.RemoteAddr), zap.Strings("worlds", removed))

		case rec.Entity.Player != nil:
			broadcastOffline(rec, live, conns)
			if rec.Entity.Player.CitizenID != nil {
				NotifyContactsOffline(*rec.Entity.Player.CitizenID, rec.Entity.Player.Username, db, live, conns, connID)
			}
		}

		if conn, ok := conns[connID]; ok {
			if killable, ok := conn.(interface{ Kill() }); ok {
				killable.Kill()
			}
		}
		delete(conns, connID)
		reg.Remove(connID)
		metrics.PurgeTotal.Inc()
	}
}

func broadcastOffline(dead *session.Record, live map[session.ConnID]*session.Record, conns map[session.ConnID]Sender) {
	p := protocol.New(protocol.AvatarDelete)
	p.AddVar(protocol.UintVar(protocol.VarUserListID, dead.SessionID))

	for connID, rec := range live {
		if rec.Dead || rec.Entity.Player == nil || rec.SessionID == dead.SessionID {
			continue
		}
		if conn, ok := conns[connID]; ok {
			_ = conn.Send(p)
		}
	}
}
