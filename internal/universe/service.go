// Package universe wires the protocol, session, directory, license, and
// presence packages into the single-threaded cooperative service loop.
package universe

import (
	"net"
	"time"

	"github.com/Faultbox/universed/internal/config"
	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/directory"
	"github.com/Faultbox/universed/internal/license"
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

// Service owns every live connection and runs the cooperative main loop.
// Nothing in Tick ever blocks on network I/O for longer than the short
// deadlines transport.Conn enforces internally, so one slow peer cannot
// starve the rest.
type Service struct {
	cfg      *config.Config
	listener net.Listener

	registry *session.Registry
	conns    map[session.ConnID]*transport.Conn
	dir      *directory.Service
	lic      *license.Tracker
	worlds   *worlddir.Directory
	tg       *telegram.Mailboxes
}

// New constructs a Service. db backs the citizen directory; lic issues and
// tracks UniverseLicense grants.
func New(cfg *config.Config, listener net.Listener, db database.CitizenDB, lic *license.Tracker) *Service {
	return &Service{
		cfg:      cfg,
		listener: listener,
		registry: session.NewRegistry(),
		conns:    make(map[session.ConnID]*transport.Conn),
		dir:      directory.New(db, cfg.IsAdmin),
		lic:      lic,
		worlds:   worlddir.New(),
		tg:       telegram.New(),
	}
}

// Run repeatedly ticks the service at cfg.Presence.TickInterval until stop
// is closed.
func (s *Service) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.Presence.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			s.Tick(t)
		}
	}
}

// Tick runs one iteration of the cooperative loop: accept new connections,
// drain and dispatch every buffered packet, purge dead sessions, send due
// heartbeats, then flush all outbound queues. The order matters: purging
// before heartbeating means a session a handler just killed this tick
// never gets a heartbeat sent to a closed socket, and flushing last means
// every packet produced this tick -- including purge broadcasts -- goes
// out in the same write batch.
func (s *Service) Tick(now time.Time) {
	s.accept()
	s.drainAndDispatch(now)

	senders := s.senderMap()
	presence.Purge(s.registry, senders, s.dirDB(), s.worlds)
	presence.SendHeartbeats(now, s.cfg.Presence.HeartbeatInterval, s.registry, senders)

	s.flushAll()

	counts := s.registry.CountByKind()
	total := 0
	for _, n := range counts {
		total += n
	}
	metrics.SessionsActive.Set(float64(total))
}

func (s *Service) dirDB() database.CitizenDB {
	return s.dir.DB()
}

func (s *Service) senderMap() map[session.ConnID]presence.Sender {
	out := make(map[session.ConnID]presence.Sender, len(s.conns))
	for id, c := range s.conns {
		out[id] = c
	}
	return out
}

func (s *Service) accept() {
	if tcpListener, ok := s.listener.(*net.TCPListener); ok {
		tcpListener.SetDeadline(time.Now().Add(time.Millisecond))
	}
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		connID := s.registry.NextConnID()
		s.registry.Register(connID, conn.RemoteAddr().String())
		s.conns[connID] = transport.New(conn)
		logger.Named("universe").Info("accepted connection", zap.String("remote", conn.RemoteAddr().String()))
	}
}

func (s *Service) drainAndDispatch(now time.Time) {
	for connID, conn := range s.conns {
		if conn.IsDead() {
			s.registry.MarkDead(connID)
			continue
		}
		if err := conn.Fill(); err != nil {
			logger.Named("universe").Warn("read error", zap.Error(err))
		}
		for {
			p, ok := conn.RecvFrame()
			if !ok {
				break
			}
			metrics.PacketsReceived.WithLabelValues(p.Opcode.String()).Inc()
			s.dispatch(now, connID, conn, p)
		}
		if conn.IsDead() {
			s.registry.MarkDead(connID)
		}
	}
}

func (s *Service) flushAll() {
	for connID, conn := range s.conns {
		if err := conn.Flush(); err != nil {
			logger.Named("universe").Warn("flush error", zap.Error(err))
			s.registry.MarkDead(connID)
		}
	}
}

func (s *Service) send(conn *transport.Conn, p *protocol.Packet) {
	if err := conn.Send(p); err != nil {
		logger.Named("universe").Warn("send error", zap.Error(err))
		return
	}
	metrics.PacketsSent.WithLabelValues(p.Opcode.String()).Inc()
}
