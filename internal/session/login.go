package session

import (
	"github.com/Faultbox/universed/internal/protocol"
)

// UserType is the role a client asks to log in as, carried in the Login
// packet's UserType var. The server still double-checks this against the
// supplied credentials and username shape; a client cannot simply declare
// itself a citizen.
type UserType uint8

const (
	UserTypeUnspecified UserType = 0
	UserTypeTourist     UserType = 1
	UserTypeCitizen     UserType = 2
	UserTypeBot         UserType = 3
)

// Citizen is the subset of a citizen directory record login cares about.
type Citizen struct {
	CitizenID   uint32
	PrivilegeID uint32
	Password    string
	Enabled     bool
	BotLimit    int32
	Beta        bool
	Trial       bool
	Privacy     bool
	CAVEnabled  bool
}

// Authenticator resolves login credentials against the citizen directory.
// Session deliberately depends only on this narrow interface rather than
// the directory package, so the login state machine has no knowledge of
// how citizens are stored or looked up.
type Authenticator interface {
	CitizenByName(name string) (Citizen, bool)
}

// LicenseIssuer stamps the UniverseLicense blob returned with every login
// response, success or failure, matching the original protocol's behavior
// of always including license data alongside the reason code.
type LicenseIssuer interface {
	CreateLicenseData(browserBuild int32) []byte
}

// LoginResult is the outcome of processing a Login packet. Citizen is only
// populated when Kind is Citizen or Bot; it carries the extra fields the
// login response includes beyond what PlayerEntity tracks long-term.
type LoginResult struct {
	Reason  ReasonCode
	Kind    ClientKind
	Entity  Entity
	Citizen Citizen
}

// HandleLogin validates a Login packet against auth and, on success,
// updates rec in place with the resolved kind and entity. It always
// returns a response packet carrying ReasonCode and UniverseLicense,
// whether or not the login succeeded, since the original protocol attaches
// license data to every login response regardless of outcome.
func HandleLogin(rec *Record, sessionID uint32, pkt *protocol.Packet, auth Authenticator, lic LicenseIssuer, reg *Registry) (*protocol.Packet, LoginResult) {
	username, _ := pkt.GetString(protocol.VarLoginUsername)
	password, _ := pkt.GetString(protocol.VarPassword)
	browserBuild, _ := pkt.GetUint(protocol.VarBrowserBuild)
	userTypeRaw, hasUserType := pkt.GetByte(protocol.VarUserType)

	if rec.Kind != Unknown {
		result := LoginResult{Reason: Unauthorized, Kind: rec.Kind, Entity: rec.Entity}
		return loginResponse(result, lic, int32(browserBuild)), result
	}

	declared := UserType(userTypeRaw)
	if !hasUserType {
		declared = UserTypeUnspecified
	}

	var result LoginResult
	switch {
	case IsTourist(username):
		result = loginAsTourist(sessionID, username, int32(browserBuild))
	case declared == UserTypeCitizen || declared == UserTypeBot:
		result = loginAsCitizen(sessionID, username, password, int32(browserBuild), declared, auth, reg)
	default:
		result = loginAsTourist(sessionID, username, int32(browserBuild))
	}

	if result.Reason == Success {
		rec.Kind = result.Kind
		rec.Entity = result.Entity
	}

	return loginResponse(result, lic, int32(browserBuild)), result
}

func loginAsTourist(sessionID uint32, username string, build int32) LoginResult {
	return LoginResult{
		Reason: Success,
		Kind:   Tourist,
		Entity: Entity{Player: &PlayerEntity{
			Build:     build,
			SessionID: sessionID,
			Username:  username,
			State:     StateLoggedIn,
		}},
	}
}

func loginAsCitizen(sessionID uint32, username, password string, build int32, declared UserType, auth Authenticator, reg *Registry) LoginResult {
	citizen, found := auth.CitizenByName(username)
	if !found {
		return LoginResult{Reason: NoSuchCitizen}
	}
	if citizen.Password != password {
		return LoginResult{Reason: Unauthorized}
	}
	if !citizen.Enabled {
		return LoginResult{Reason: CitizenDisabled}
	}

	kind := Citizen
	if declared == UserTypeBot {
		if citizen.BotLimit <= 0 || reg.CountBotsOwnedBy(citizen.CitizenID) >= int(citizen.BotLimit) {
			return LoginResult{Reason: BotLimitExceeded}
		}
		kind = Bot
	}

	citizenID := citizen.CitizenID
	privID := citizen.PrivilegeID
	return LoginResult{
		Reason: Success,
		Kind:   kind,
		Entity: Entity{Player: &PlayerEntity{
			Build:       build,
			SessionID:   sessionID,
			CitizenID:   &citizenID,
			PrivilegeID: &privID,
			Username:    username,
			State:       StateLoggedIn,
		}},
		Citizen: citizen,
	}
}

// loginResponse builds the Login reply. ReasonCode and UniverseLicense are
// always present; CitizenName and SessionID are added whenever the login
// resolved an entity, and a successful Citizen or Bot login additionally
// carries the five citizen-projection vars the original protocol attaches.
func loginResponse(result LoginResult, lic LicenseIssuer, build int32) *protocol.Packet {
	p := protocol.New(protocol.Login)
	p.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(result.Reason)))
	p.AddVar(protocol.DataVar(protocol.VarUniverseLicense, lic.CreateLicenseData(build)))

	if result.Reason != Success {
		return p
	}

	if player := result.Entity.Player; player != nil {
		p.AddVar(protocol.StringVar(protocol.VarCitizenName, player.Username))
		p.AddVar(protocol.UintVar(protocol.VarSessionID, player.SessionID))
	}

	if result.Kind == Citizen || result.Kind == Bot {
		p.AddVar(protocol.ByteVar(protocol.VarBetaUser, boolByte(result.Citizen.Beta)))
		p.AddVar(protocol.ByteVar(protocol.VarTrialUser, boolByte(result.Citizen.Trial)))
		p.AddVar(protocol.UintVar(protocol.VarCitizenNumber, result.Citizen.CitizenID))
		p.AddVar(protocol.ByteVar(protocol.VarCitizenPrivacy, boolByte(result.Citizen.Privacy)))
		p.AddVar(protocol.ByteVar(protocol.VarCAVEnabled, boolByte(result.Citizen.CAVEnabled)))
	}

	return p
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// HandleServerLogin promotes a connection to a WorldServer entity. World
// servers authenticate out of band (the license mechanism this service
// does not implement) so the only validation here is the duplicate check:
// a connection that already holds a role gets AlreadyLoggedIn.
func HandleServerLogin(rec *Record, pkt *protocol.Packet) *protocol.Packet {
	if rec.Kind != Unknown {
		p := protocol.New(protocol.ServerLogin)
		p.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(AlreadyLoggedIn)))
		return p
	}

	rec.Kind = WorldServer
	rec.Entity = Entity{World: &WorldServerEntity{}}

	p := protocol.New(protocol.ServerLogin)
	p.AddVar(protocol.IntVar(protocol.VarReasonCode, int32(Success)))
	return p
}
