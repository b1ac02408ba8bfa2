package universe

import (
	"time"

	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/directory"
	"github.com/Faultbox/universed/internal/logger"
	"github.com/Faultbox/universed/internal/metrics"
	"github.com/Faultbox/universed/internal/presence"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
	"github.com/Faultbox/universed/internal/telegram"
	"github.com/Faultbox/universed/internal/transport"
	"github.com/Faultbox/universed/internal/worlddir"
	"go.uber.org/zap"
)

// dispatch routes one decoded packet to its handler. A connection that
// sends an opcode illegal for its current kind/state is not an error: the
// packet is dropped and logged, matching the original service's tolerance
// for a misbehaving or pre-login client rather than killing the socket
// over protocol chatter.
func (s *Service) dispatch(now time.Time, connID session.ConnID, conn *transport.Conn, p *protocol.Packet) {
	rec, ok := s.registry.Get(connID)
	if !ok {
		return
	}
	rec.Touch(now)

	if !session.IsLegal(rec.Kind, stateOf(rec), p.Opcode) {
		logger.Named("universe").Debug("dropping illegal opcode for session state",
			zap.String("opcode", p.Opcode.String()), zap.String("kind", rec.Kind.String()))
		return
	}

	switch p.Opcode {
	case protocol.Login:
		s.handleLogin(connID, rec, conn, p)
	case protocol.ServerLogin:
		resp := session.HandleServerLogin(rec, p)
		s.send(conn, resp)
	case protocol.Heartbeat:
		// Touch above already recorded liveness; no response required.
	case protocol.CitizenInfo, protocol.CitizenLookupByName, protocol.CitizenLookupByNumber:
		s.handleCitizenLookup(rec, conn, p)
	case protocol.CitizenNext:
		s.handleCitizenPage(rec, conn, p, s.dir.Next)
	case protocol.CitizenPrev:
		s.handleCitizenPage(rec, conn, p, s.dir.Prev)
	case protocol.CitizenChange:
		s.handleCitizenChange(rec, conn, p)
	case protocol.CitizenAdd:
		s.handleCitizenAdd(rec, conn, p)
	case protocol.CitizenDelete:
		s.handleCitizenDelete(rec, conn, p)
	case protocol.UserList:
		s.handleUserList(now, rec, conn, p)
	case protocol.AttributeChange:
		s.handleAttributeChange(connID, rec, conn, p)
	case protocol.ServerWorldList:
		s.handleServerWorldList(connID, rec, conn, p)
	case protocol.ServerWorldDelete:
		s.handleServerWorldDelete(connID, rec, conn, p)
	case protocol.WorldStatsUpdate:
		s.handleWorldStatsUpdate(connID, p)
	case protocol.WorldList:
		s.handleWorldList(conn)
	case protocol.WorldLookup:
		s.handleWorldLookup(conn, p)
	case protocol.TelegramSend:
		s.handleTelegramSend(rec, conn, p)
	case protocol.TelegramGet:
		s.handleTelegramGet(rec, conn)
	default:
		logger.Named("universe").Debug("no handler for opcode", zap.String("opcode", p.Opcode.String()))
	}
}

func stateOf(rec *session.Record) session.State {
	if rec.Entity.IsNone() {
		return session.StatePreLogin
	}
	return session.StateLoggedIn
}

func (s *Service) requesterCitizenID(rec *session.Record) (uint32, bool) {
	if rec.Entity.Player == nil || rec.Entity.Player.CitizenID == nil {
		return 0, false
	}
	return *rec.Entity.Player.CitizenID, true
}

func (s *Service) isAdminRec(rec *session.Record) bool {
	id, ok := s.requesterCitizenID(rec)
	return ok && s.cfg.IsAdmin(id)
}

func (s *Service) handleLogin(connID session.ConnID, rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	sessionID := s.registry.AllocateSessionID()
	resp, result := session.HandleLogin(rec, sessionID, p, loginAuth{s.dir}, s.lic, s.registry)
	metrics.LoginsTotal.WithLabelValues(result.Reason.String()).Inc()
	s.send(conn, resp)
}

// loginAuth adapts directory.Service to session.Authenticator.
type loginAuth struct {
	dir *directory.Service
}

func (a loginAuth) CitizenByName(name string) (session.Citizen, bool) {
	rec, reason := a.dir.LookupByName(name)
	if reason != session.Success {
		return session.Citizen{}, false
	}
	return session.Citizen{
		CitizenID:   rec.CitizenID,
		PrivilegeID: rec.PrivilegeID,
		Password:    rec.Password,
		Enabled:     rec.Enabled,
		BotLimit:    rec.BotLimit,
		Beta:        rec.Beta,
		Trial:       rec.Trial,
		Privacy:     rec.Privacy,
		CAVEnabled:  rec.CAVEnabled,
	}, true
}

func (s *Service) handleCitizenLookup(rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	if !s.isAdminRec(rec) {
		s.sendCitizenInfo(rec, conn, database.CitizenRecord{}, session.Unauthorized)
		return
	}

	var target database.CitizenRecord
	var reason session.ReasonCode

	if name, ok := p.GetString(protocol.VarCitizenName); ok {
		target, reason = s.dir.LookupByName(name)
	} else if number, ok := p.GetUint(protocol.VarCitizenNumber); ok {
		target, reason = s.dir.Lookup(number)
	} else {
		reason = session.NoSuchCitizen
	}

	s.sendCitizenInfo(rec, conn, target, reason)
}

func (s *Service) handleCitizenPage(rec *session.Record, conn *transport.Conn, p *protocol.Packet, page func(uint32) (database.CitizenRecord, session.ReasonCode)) {
	if !s.isAdminRec(rec) {
		s.sendCitizenInfo(rec, conn, database.CitizenRecord{}, session.Unauthorized)
		return
	}

	number, _ := p.GetUint(protocol.VarCitizenNumber)
	target, reason := page(number)
	s.sendCitizenInfo(rec, conn, target, reason)
}

func (s *Service) sendCitizenInfo(rec *session.Record, conn *transport.Conn, target database.CitizenRecord, reason session.ReasonCode) {
	resp := protocol.New(protocol.CitizenInfo)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(reason)))
	if reason == session.Success {
		requesterID, hasRequester := s.requesterCitizenID(rec)
		for _, v := range s.dir.CitizenInfoVars(requesterID, hasRequester, target) {
			resp.AddVar(v)
		}
	}
	s.send(conn, resp)
}

func (s *Service) handleCitizenChange(rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	citizenID, _ := p.GetUint(protocol.VarCitizenNumber)
	req := directory.ChangeRequest{CitizenID: citizenID}
	if v, ok := p.GetString(protocol.VarCitizenName); ok {
		req.Name = &v
	}
	if v, ok := p.GetString(protocol.VarCitizenPassword); ok {
		req.Password = &v
	}
	if v, ok := p.GetString(protocol.VarCitizenEmail); ok {
		req.Email = &v
	}
	if v, ok := p.GetString(protocol.VarCitizenComment); ok {
		req.Comment = &v
	}
	if v, ok := p.GetString(protocol.VarCitizenURL); ok {
		req.URL = &v
	}
	if v, ok := p.GetByte(protocol.VarCitizenPrivacy); ok {
		b := v != 0
		req.Privacy = &b
	}
	if v, ok := p.GetUint(protocol.VarCitizenBotLimit); ok {
		i := int32(v)
		req.BotLimit = &i
	}
	if v, ok := p.GetByte(protocol.VarCitizenEnabled); ok {
		b := v != 0
		req.Enabled = &b
	}

	requesterID, _ := s.requesterCitizenID(rec)
	reason := s.dir.Change(requesterID, s.isAdminRec(rec), req)

	resp := protocol.New(protocol.CitizenChangeResult)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(reason)))
	s.send(conn, resp)
}

func (s *Service) handleCitizenAdd(rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	if !s.isAdminRec(rec) {
		s.sendCitizenChangeResult(conn, session.Unauthorized)
		return
	}
	number, _ := p.GetUint(protocol.VarCitizenNumber)
	name, _ := p.GetString(protocol.VarCitizenName)
	password, _ := p.GetString(protocol.VarCitizenPassword)
	email, _ := p.GetString(protocol.VarCitizenEmail)

	reason := s.dir.Add(database.CitizenRecord{
		CitizenID: number,
		Name:      name,
		Password:  password,
		Email:     email,
		Enabled:   true,
	})
	s.sendCitizenChangeResult(conn, reason)
}

func (s *Service) handleCitizenDelete(rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	number, _ := p.GetUint(protocol.VarCitizenNumber)
	reason := s.dir.Delete(s.isAdminRec(rec), number)
	s.sendCitizenChangeResult(conn, reason)
}

func (s *Service) sendCitizenChangeResult(conn *transport.Conn, reason session.ReasonCode) {
	resp := protocol.New(protocol.CitizenChangeResult)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(reason)))
	s.send(conn, resp)
}

func (s *Service) handleUserList(now time.Time, rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	if presence.Throttled(now, rec, s.cfg.Presence.UserListThrottle) {
		return
	}
	rec.LastUserListSent = now

	groups := presence.BuildUserList(now, s.registry, s.cfg.Network.PacketGroupBytes, s.isAdminRec(rec))
	for _, g := range groups {
		_ = conn.SendGroup(g)
	}
}

func (s *Service) handleAttributeChange(connID session.ConnID, rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	if !s.isAdminRec(rec) {
		return
	}
	value, ok := p.GetUint(protocol.VarAttribAllowTourists)
	if !ok {
		return
	}
	presence.BroadcastAttributeChange(protocol.VarAttribAllowTourists, value, s.registry, s.senderMap(), connID)
}

// handleServerWorldList registers or updates one world announced by a
// connected world server. World servers send one of these per world they
// host, repeated whenever their stats change enough to be worth a push.
func (s *Service) handleServerWorldList(connID session.ConnID, rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	if rec.Entity.World == nil {
		return
	}
	name, ok := p.GetString(protocol.VarWorldName)
	if !ok || name == "" {
		s.sendServerWorldResult(conn, session.NoSuchWorld)
		return
	}
	rating, _ := p.GetUint(protocol.VarWorldRating)
	users, _ := p.GetUint(protocol.VarWorldUsers)
	maxUsers, _ := p.GetUint(protocol.VarWorldMaxUsers)
	status, _ := p.GetUint(protocol.VarWorldStatus)

	s.worlds.Register(connID, worlddir.Info{
		Name: name, Rating: rating, Users: users, MaxUsers: maxUsers, Status: status,
	})
	rec.Entity.World.Worlds = appendWorldName(rec.Entity.World.Worlds, name)
	s.sendServerWorldResult(conn, session.Success)
}

// handleServerWorldDelete delists one world by name. Deleting a world this
// connection never registered is not an error: Unregister is a no-op in
// that case, matching the tolerance the rest of dispatch extends to
// redundant or out-of-order protocol chatter.
func (s *Service) handleServerWorldDelete(connID session.ConnID, rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	name, _ := p.GetString(protocol.VarWorldName)
	s.worlds.Unregister(connID, name)
	if rec.Entity.World != nil {
		rec.Entity.World.Worlds = removeWorldName(rec.Entity.World.Worlds, name)
	}
	s.sendServerWorldResult(conn, session.Success)
}

func (s *Service) sendServerWorldResult(conn *transport.Conn, reason session.ReasonCode) {
	resp := protocol.New(protocol.ServerWorldResult)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(reason)))
	s.send(conn, resp)
}

// handleWorldStatsUpdate refreshes the live user count and rating of a
// world already registered via ServerWorldList. No response is sent: this
// is a periodic fire-and-forget push, the same pattern as Heartbeat.
func (s *Service) handleWorldStatsUpdate(connID session.ConnID, p *protocol.Packet) {
	name, ok := p.GetString(protocol.VarWorldName)
	if !ok || name == "" {
		return
	}
	info, found := s.worlds.Lookup(name)
	if !found {
		return
	}
	if v, ok := p.GetUint(protocol.VarWorldUsers); ok {
		info.Users = v
	}
	if v, ok := p.GetUint(protocol.VarWorldRating); ok {
		info.Rating = v
	}
	if v, ok := p.GetUint(protocol.VarWorldMaxUsers); ok {
		info.MaxUsers = v
	}
	if v, ok := p.GetUint(protocol.VarWorldStatus); ok {
		info.Status = v
	}
	s.worlds.Register(connID, info)
}

// handleWorldList answers a citizen client's request for every currently
// registered world, one WorldListResult per world followed by a
// QueryUpToDate marker so the client knows the list is complete.
func (s *Service) handleWorldList(conn *transport.Conn) {
	for _, w := range s.worlds.List() {
		s.send(conn, worldListResultPacket(w))
	}
	s.send(conn, protocol.New(protocol.QueryUpToDate))
}

// handleWorldLookup answers a query for one world by name.
func (s *Service) handleWorldLookup(conn *transport.Conn, p *protocol.Packet) {
	name, _ := p.GetString(protocol.VarWorldName)
	info, found := s.worlds.Lookup(name)
	if !found {
		resp := protocol.New(protocol.WorldListResult)
		resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(session.NoSuchWorld)))
		s.send(conn, resp)
		return
	}
	resp := worldListResultPacket(info)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(session.Success)))
	s.send(conn, resp)
}

func worldListResultPacket(w worlddir.Info) *protocol.Packet {
	p := protocol.New(protocol.WorldListResult)
	p.AddVar(protocol.StringVar(protocol.VarWorldName, w.Name))
	p.AddVar(protocol.UintVar(protocol.VarWorldRating, w.Rating))
	p.AddVar(protocol.UintVar(protocol.VarWorldUsers, w.Users))
	p.AddVar(protocol.UintVar(protocol.VarWorldMaxUsers, w.MaxUsers))
	p.AddVar(protocol.UintVar(protocol.VarWorldStatus, w.Status))
	return p
}

func appendWorldName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

func removeWorldName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// handleTelegramSend resolves the addressed citizen, delivers the message
// immediately if they're online, or queues it in their mailbox for pickup
// via TelegramGet otherwise.
func (s *Service) handleTelegramSend(rec *session.Record, conn *transport.Conn, p *protocol.Packet) {
	message, _ := p.GetString(protocol.VarMessage)
	senderID, _ := s.requesterCitizenID(rec)
	senderName := ""
	if rec.Entity.Player != nil {
		senderName = rec.Entity.Player.Username
	}

	var target database.CitizenRecord
	var reason session.ReasonCode
	if name, ok := p.GetString(protocol.VarCitizenName); ok {
		target, reason = s.dir.LookupByName(name)
	} else if number, ok := p.GetUint(protocol.VarCitizenNumber); ok {
		target, reason = s.dir.Lookup(number)
	} else {
		reason = session.NoSuchCitizen
	}

	if reason == session.Success {
		tel := telegram.Telegram{FromCitizenID: senderID, FromName: senderName, Message: message}
		if dest, ok := s.findOnlineCitizen(target.CitizenID); ok {
			s.send(dest, telegramDeliverPacket(tel))
		} else {
			s.tg.Queue(target.CitizenID, tel)
		}
	}

	resp := protocol.New(protocol.TelegramSend)
	resp.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(reason)))
	s.send(conn, resp)
}

// handleTelegramGet drains and delivers every telegram waiting in the
// caller's mailbox, terminated by a QueryUpToDate marker. A caller with no
// resolved citizen id (a tourist) has no mailbox and gets only the marker.
func (s *Service) handleTelegramGet(rec *session.Record, conn *transport.Conn) {
	if citizenID, ok := s.requesterCitizenID(rec); ok {
		for _, tel := range s.tg.Drain(citizenID) {
			s.send(conn, telegramDeliverPacket(tel))
		}
	}
	s.send(conn, protocol.New(protocol.QueryUpToDate))
}

func telegramDeliverPacket(tel telegram.Telegram) *protocol.Packet {
	p := protocol.New(protocol.TelegramDeliver)
	p.AddVar(protocol.UintVar(protocol.VarCitizenNumber, tel.FromCitizenID))
	p.AddVar(protocol.StringVar(protocol.VarCitizenName, tel.FromName))
	p.AddVar(protocol.StringVar(protocol.VarMessage, tel.Message))
	return p
}

// findOnlineCitizen looks through every live connection for the one
// currently logged in as citizenID.
func (s *Service) findOnlineCitizen(citizenID uint32) (*transport.Conn, bool) {
	for connID, rec := range s.registry.Snapshot() {
		if rec.Dead || rec.Entity.Player == nil || rec.Entity.Player.CitizenID == nil {
			continue
		}
		if *rec.Entity.Player.CitizenID != citizenID {
			continue
		}
		if conn, ok := s.conns[connID]; ok {
			return conn, true
		}
	}
	return nil, false
}
