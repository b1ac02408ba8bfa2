package universe

import (
	"net"
	"testing"
	"time"

	"github.com/Faultbox/universed/internal/config"
	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/database/memorydb"
	"github.com/Faultbox/universed/internal/license"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

func newTestService(t *testing.T, db *memorydb.DB) (*Service, net.Listener) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	cfg := config.Default()
	cfg.Presence.UserListThrottle = 0
	lic := license.NewTracker(license.StaticIssuer{Payload: []byte{1}}, 8)
	svc := New(cfg, listener, db, lic)
	return svc, listener
}

func sendPacket(t *testing.T, conn net.Conn, p *protocol.Packet) {
	t.Helper()
	encoded, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := conn.Write(encoded); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func readPacket(t *testing.T, conn net.Conn) *protocol.Packet {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	p, _, err := protocol.Deserialize(buf[:n])
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return p
}

func TestServiceLoginRoundTrip(t *testing.T) {
	svc, listener := newTestService(t, memorydb.New())
	defer listener.Close()

	client, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	svc.Tick(time.Unix(1000, 0)) // accept

	login := protocol.New(protocol.Login)
	login.AddVar(protocol.StringVar(protocol.VarLoginUsername, `"Guest1`))
	login.AddVar(protocol.UintVar(protocol.VarBrowserBuild, 700))
	sendPacket(t, client, login)

	svc.Tick(time.Unix(1001, 0)) // dispatch + flush

	resp := readPacket(t, client)
	if resp.Opcode != protocol.Login {
		t.Fatalf("Opcode = %v, want Login", resp.Opcode)
	}
	reason, _ := resp.GetInt(protocol.VarReasonCode)
	if reason != 0 {
		t.Fatalf("ReasonCode = %d, want Success (0)", reason)
	}
}

// TestServiceCitizenInfoLookup logs in as citizen number 1, which
// config.Default grants admin privileges to, since CitizenLookupByNumber
// requires the admin gate.
func TestServiceCitizenInfoLookup(t *testing.T) {
	db := memorydb.New()
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 1, Name: "Root Admin", Password: "hunter2", Enabled: true}); err != nil {
		t.Fatalf("CitizenAdd: %v", err)
	}
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 42, Name: "Bob Smith", Enabled: true}); err != nil {
		t.Fatalf("CitizenAdd: %v", err)
	}
	svc, listener := newTestService(t, db)
	defer listener.Close()

	client, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	svc.Tick(time.Unix(1000, 0))

	login := protocol.New(protocol.Login)
	login.AddVar(protocol.StringVar(protocol.VarLoginUsername, "Root Admin"))
	login.AddVar(protocol.StringVar(protocol.VarPassword, "hunter2"))
	login.AddVar(protocol.ByteVar(protocol.VarUserType, 2)) // UserTypeCitizen
	login.AddVar(protocol.UintVar(protocol.VarBrowserBuild, 700))
	sendPacket(t, client, login)
	svc.Tick(time.Unix(1001, 0))
	readPacket(t, client) // login response

	query := protocol.New(protocol.CitizenLookupByNumber)
	query.AddVar(protocol.UintVar(protocol.VarCitizenNumber, 42))
	sendPacket(t, client, query)
	svc.Tick(time.Unix(1002, 0))

	resp := readPacket(t, client)
	if resp.Opcode != protocol.CitizenInfo {
		t.Fatalf("Opcode = %v, want CitizenInfo", resp.Opcode)
	}
	name, ok := resp.GetString(protocol.VarCitizenName)
	if !ok || name != "Bob Smith" {
		t.Fatalf("CitizenName = %q, %v, want Bob Smith", name, ok)
	}
}

// TestServiceCitizenLookupRejectsNonAdmin confirms a non-admin session (a
// tourist) receives Unauthorized rather than a citizen's projection.
func TestServiceCitizenLookupRejectsNonAdmin(t *testing.T) {
	db := memorydb.New()
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 42, Name: "Bob Smith", Enabled: true}); err != nil {
		t.Fatalf("CitizenAdd: %v", err)
	}
	svc, listener := newTestService(t, db)
	defer listener.Close()

	client, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	svc.Tick(time.Unix(1000, 0))

	login := protocol.New(protocol.Login)
	login.AddVar(protocol.StringVar(protocol.VarLoginUsername, `"Guest1`))
	login.AddVar(protocol.UintVar(protocol.VarBrowserBuild, 700))
	sendPacket(t, client, login)
	svc.Tick(time.Unix(1001, 0))
	readPacket(t, client) // login response

	query := protocol.New(protocol.CitizenLookupByNumber)
	query.AddVar(protocol.UintVar(protocol.VarCitizenNumber, 42))
	sendPacket(t, client, query)
	svc.Tick(time.Unix(1002, 0))

	resp := readPacket(t, client)
	reason, _ := resp.GetInt(protocol.VarReasonCode)
	if session.ReasonCode(reason) != session.Unauthorized {
		t.Fatalf("ReasonCode = %v, want Unauthorized", session.ReasonCode(reason))
	}
}

func TestServicePurgesOnClientDisconnect(t *testing.T) {
	svc, listener := newTestService(t, memorydb.New())
	defer listener.Close()

	client, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	svc.Tick(time.Unix(1000, 0))
	if len(svc.conns) != 1 {
		t.Fatalf("expected 1 connection after accept, got %d", len(svc.conns))
	}

	client.Close()
	// Give the OS a moment to surface the close to the server side read.
	time.Sleep(50 * time.Millisecond)
	svc.Tick(time.Unix(1001, 0))
	svc.Tick(time.Unix(1002, 0))

	if len(svc.conns) != 0 {
		t.Fatalf("expected connection purged after disconnect, got %d remaining", len(svc.conns))
	}
}
