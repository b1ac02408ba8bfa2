package session

import (
	"testing"

	"github.com/Faultbox/universed/internal/protocol"
)

type fakeAuth struct {
	citizens map[string]Citizen
}

func (f fakeAuth) CitizenByName(name string) (Citizen, bool) {
	c, ok := f.citizens[name]
	return c, ok
}

type fakeLicense struct{}

func (fakeLicense) CreateLicenseData(build int32) []byte {
	return []byte{byte(build)}
}

func loginPacket(username, password string, userType UserType, build uint32) *protocol.Packet {
	p := protocol.New(protocol.Login)
	p.AddVar(protocol.StringVar(protocol.VarLoginUsername, username))
	p.AddVar(protocol.StringVar(protocol.VarPassword, password))
	p.AddVar(protocol.ByteVar(protocol.VarUserType, uint8(userType)))
	p.AddVar(protocol.UintVar(protocol.VarBrowserBuild, build))
	return p
}

func TestHandleLoginTourist(t *testing.T) {
	rec := &Record{}
	pkt := loginPacket(`"Guest1`, "", UserTypeUnspecified, 700)

	resp, result := HandleLogin(rec, 1, pkt, fakeAuth{}, fakeLicense{}, NewRegistry())

	if result.Reason != Success {
		t.Fatalf("Reason = %v, want Success", result.Reason)
	}
	if result.Kind != Tourist {
		t.Fatalf("Kind = %v, want Tourist", result.Kind)
	}
	if rec.Entity.Player == nil || rec.Entity.Player.CitizenID != nil {
		t.Fatalf("expected tourist entity with no citizen id, got %+v", rec.Entity.Player)
	}

	reason, _ := resp.GetInt(protocol.VarReasonCode)
	if ReasonCode(reason) != Success {
		t.Errorf("response ReasonCode = %v, want Success", ReasonCode(reason))
	}
	if _, ok := resp.GetData(protocol.VarUniverseLicense); !ok {
		t.Error("expected UniverseLicense var on every login response")
	}
}

func TestHandleLoginCitizenSuccess(t *testing.T) {
	auth := fakeAuth{citizens: map[string]Citizen{
		"Bob Smith": {CitizenID: 42, PrivilegeID: 1, Password: "hunter2", Enabled: true},
	}}
	rec := &Record{}
	pkt := loginPacket("Bob Smith", "hunter2", UserTypeCitizen, 700)

	_, result := HandleLogin(rec, 5, pkt, auth, fakeLicense{}, NewRegistry())

	if result.Reason != Success {
		t.Fatalf("Reason = %v, want Success", result.Reason)
	}
	if result.Kind != Citizen {
		t.Fatalf("Kind = %v, want Citizen", result.Kind)
	}
	if rec.Entity.Player == nil || rec.Entity.Player.CitizenID == nil || *rec.Entity.Player.CitizenID != 42 {
		t.Fatalf("expected citizen id 42, got %+v", rec.Entity.Player)
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	auth := fakeAuth{citizens: map[string]Citizen{
		"Bob Smith": {CitizenID: 42, Password: "hunter2", Enabled: true},
	}}
	rec := &Record{}
	pkt := loginPacket("Bob Smith", "wrong", UserTypeCitizen, 700)

	_, result := HandleLogin(rec, 5, pkt, auth, fakeLicense{}, NewRegistry())
	if result.Reason != Unauthorized {
		t.Fatalf("Reason = %v, want Unauthorized", result.Reason)
	}
}

func TestHandleLoginNoSuchCitizen(t *testing.T) {
	rec := &Record{}
	pkt := loginPacket("Nobody", "x", UserTypeCitizen, 700)

	_, result := HandleLogin(rec, 5, pkt, fakeAuth{}, fakeLicense{}, NewRegistry())
	if result.Reason != NoSuchCitizen {
		t.Fatalf("Reason = %v, want NoSuchCitizen", result.Reason)
	}
}

func TestHandleLoginDuplicateRejected(t *testing.T) {
	rec := &Record{Kind: Tourist, Entity: Entity{Player: &PlayerEntity{Username: `"Guest1`}}}
	pkt := loginPacket(`"Guest1`, "", UserTypeUnspecified, 700)

	_, result := HandleLogin(rec, 1, pkt, fakeAuth{}, fakeLicense{}, NewRegistry())
	if result.Reason != Unauthorized {
		t.Fatalf("Reason = %v, want Unauthorized", result.Reason)
	}
}

func TestHandleLoginBotWithinLimitSucceeds(t *testing.T) {
	auth := fakeAuth{citizens: map[string]Citizen{
		"Owner": {CitizenID: 9, Password: "p", Enabled: true, BotLimit: 2},
	}}
	reg := NewRegistry()
	rec := &Record{}
	pkt := loginPacket("Owner", "p", UserTypeBot, 700)

	_, result := HandleLogin(rec, 1, pkt, auth, fakeLicense{}, reg)
	if result.Reason != Success {
		t.Fatalf("Reason = %v, want Success", result.Reason)
	}
	if result.Kind != Bot {
		t.Fatalf("Kind = %v, want Bot", result.Kind)
	}
}

func TestHandleLoginBotAtLimitRejected(t *testing.T) {
	auth := fakeAuth{citizens: map[string]Citizen{
		"Owner": {CitizenID: 9, Password: "p", Enabled: true, BotLimit: 1},
	}}
	reg := NewRegistry()
	// Simulate one already-connected bot owned by citizen 9.
	ownerID := uint32(9)
	existing := reg.Register(reg.NextConnID(), "127.0.0.1:1")
	existing.Kind = Bot
	existing.Entity = Entity{Player: &PlayerEntity{CitizenID: &ownerID}}

	rec := &Record{}
	pkt := loginPacket("Owner", "p", UserTypeBot, 700)

	_, result := HandleLogin(rec, 2, pkt, auth, fakeLicense{}, reg)
	if result.Reason != BotLimitExceeded {
		t.Fatalf("Reason = %v, want BotLimitExceeded", result.Reason)
	}
}

func TestHandleLoginBotWithZeroLimitRejected(t *testing.T) {
	auth := fakeAuth{citizens: map[string]Citizen{
		"Owner": {CitizenID: 9, Password: "p", Enabled: true, BotLimit: 0},
	}}
	rec := &Record{}
	pkt := loginPacket("Owner", "p", UserTypeBot, 700)

	_, result := HandleLogin(rec, 1, pkt, auth, fakeLicense{}, NewRegistry())
	if result.Reason != BotLimitExceeded {
		t.Fatalf("Reason = %v, want BotLimitExceeded", result.Reason)
	}
}

func TestHandleServerLoginPromotes(t *testing.T) {
	rec := &Record{}
	resp := HandleServerLogin(rec, protocol.New(protocol.ServerLogin))

	if rec.Kind != WorldServer {
		t.Fatalf("Kind = %v, want WorldServer", rec.Kind)
	}
	reason, _ := resp.GetInt(protocol.VarReasonCode)
	if ReasonCode(reason) != Success {
		t.Errorf("ReasonCode = %v, want Success", ReasonCode(reason))
	}
}

func TestIsLegalOpcodes(t *testing.T) {
	if !IsLegal(Unknown, StatePreLogin, protocol.Login) {
		t.Error("Login should always be legal pre-login")
	}
	if IsLegal(Unknown, StatePreLogin, protocol.CitizenInfo) {
		t.Error("CitizenInfo should not be legal before login")
	}
	if !IsLegal(Citizen, StateLoggedIn, protocol.CitizenInfo) {
		t.Error("CitizenInfo should be legal for a logged-in citizen")
	}
	if IsLegal(Citizen, StateLoggedIn, protocol.ServerWorldList) {
		t.Error("ServerWorldList should not be legal for a non-world-server")
	}
}

func TestIsTourist(t *testing.T) {
	if !IsTourist(`"Guest1`) {
		t.Error(`expected username starting with " to be a tourist`)
	}
	if IsTourist("Bob Smith") {
		t.Error("expected a plain username to not be a tourist")
	}
}
