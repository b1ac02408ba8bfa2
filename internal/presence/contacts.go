package presence

import (
	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

// NotifyContactsOffline tells every online citizen who has departedCitizen
// in their contact list that the citizen has gone offline. excludeConn is
// the connection that just disconnected, so it's never a delivery target.
func NotifyContactsOffline(departedCitizen uint32, departedName string, db database.CitizenDB, live map[session.ConnID]*session.Record, conns map[session.ConnID]Sender, excludeConn session.ConnID) {
	for connID, rec := range live {
		if connID == excludeConn || rec.Dead || rec.Entity.Player == nil || rec.Entity.Player.CitizenID == nil {
			continue
		}
		if !hasContact(db.ContactsOf(*rec.Entity.Player.CitizenID), departedCitizen) {
			continue
		}
		conn, ok := conns[connID]
		if !ok {
			continue
		}
		p := protocol.New(protocol.ContactChange)
		p.AddVar(protocol.UintVar(protocol.VarCitizenNumber, departedCitizen))
		p.AddVar(protocol.StringVar(protocol.VarCitizenName, departedName))
		p.AddVar(protocol.ByteVar(protocol.VarUserListState, 0)) // 0 == offline
		_ = conn.Send(p)
	}
}

func hasContact(contacts []database.ContactRecord, citizenID uint32) bool {
	for _, c := range contacts {
		if c.ContactCitizenID == citizenID {
			return true
		}
	}
	return false
}
