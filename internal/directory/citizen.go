// Package directory implements citizen lookup, pagination, and
// field-projected CitizenInfo responses.
package directory

import (
	"github.com/Faultbox/universed/internal/database"
	"github.com/Faultbox/universed/internal/protocol"
	"github.com/Faultbox/universed/internal/session"
)

// Service answers citizen directory queries against a CitizenDB, applying
// the field projection tiers a requester's privilege level entitles them
// to.
type Service struct {
	db      database.CitizenDB
	isAdmin func(citizenID uint32) bool
}

// New returns a directory service backed by db. isAdmin reports whether a
// citizen number holds administrative privilege.
func New(db database.CitizenDB, isAdmin func(citizenID uint32) bool) *Service {
	return &Service{db: db, isAdmin: isAdmin}
}

// DB returns the backing CitizenDB, for callers outside this package that
// need direct access (e.g. presence's contact notifications).
func (s *Service) DB() database.CitizenDB {
	return s.db
}

// Lookup finds a citizen by exact number.
func (s *Service) Lookup(number uint32) (database.CitizenRecord, session.ReasonCode) {
	rec, ok := s.db.CitizenByNumber(number)
	if !ok {
		return database.CitizenRecord{}, session.NoSuchCitizen
	}
	return rec, session.Success
}

// LookupByName finds a citizen by exact name.
func (s *Service) LookupByName(name string) (database.CitizenRecord, session.ReasonCode) {
	rec, ok := s.db.CitizenByName(name)
	if !ok {
		return database.CitizenRecord{}, session.NoSuchCitizen
	}
	return rec, session.Success
}

// Next returns the smallest citizen number greater than after.
func (s *Service) Next(after uint32) (database.CitizenRecord, session.ReasonCode) {
	rec, ok := s.db.CitizenNext(after)
	if !ok {
		return database.CitizenRecord{}, session.NoSuchCitizen
	}
	return rec, session.Success
}

// Prev returns the largest citizen number less than before.
func (s *Service) Prev(before uint32) (database.CitizenRecord, session.ReasonCode) {
	rec, ok := s.db.CitizenPrev(before)
	if !ok {
		return database.CitizenRecord{}, session.NoSuchCitizen
	}
	return rec, session.Success
}

// canSeePrivate reports whether requesterID may see self-or-admin tier
// fields for rec.
func (s *Service) canSeePrivate(requesterID uint32, hasRequester bool, rec database.CitizenRecord) bool {
	if !hasRequester {
		return false
	}
	return requesterID == rec.CitizenID || s.isAdmin(requesterID)
}

// CitizenInfoVars builds the var list for a CitizenInfo response, applying
// the three projection tiers: fields any client can see, fields visible
// only to the citizen themselves or an admin, and fields visible only to
// an admin.
//
// Two quirks are preserved from the original protocol rather than cleaned
// up: CAVTemplate is reported as 0 whenever CAVEnabled is false regardless
// of the stored template id, and CitizenImmigration is appended twice
// within the self-or-admin tier.
func (s *Service) CitizenInfoVars(requesterID uint32, hasRequester bool, rec database.CitizenRecord) []protocol.Var {
	private := s.canSeePrivate(requesterID, hasRequester, rec)
	admin := hasRequester && s.isAdmin(requesterID)

	vars := []protocol.Var{
		protocol.UintVar(protocol.VarCitizenNumber, rec.CitizenID),
		protocol.StringVar(protocol.VarCitizenName, rec.Name),
		protocol.StringVar(protocol.VarCitizenURL, rec.URL),
		protocol.ByteVar(protocol.VarTrialUser, boolByte(rec.Trial)),
		protocol.ByteVar(protocol.VarCAVEnabled, boolByte(rec.CAVEnabled)),
	}

	cavTemplate := rec.CAVTemplate
	if !rec.CAVEnabled {
		cavTemplate = 0
	}
	vars = append(vars, protocol.UintVar(protocol.VarCAVTemplate, cavTemplate))

	if private {
		vars = append(vars,
			protocol.UintVar(protocol.VarCitizenImmigration, rec.Immigration),
			protocol.UintVar(protocol.VarCitizenExpiration, rec.Expiration),
			protocol.UintVar(protocol.VarCitizenLastLogin, rec.LastLogin),
			protocol.UintVar(protocol.VarCitizenTotalTime, rec.TotalTime),
			protocol.UintVar(protocol.VarCitizenBotLimit, uint32(rec.BotLimit)),
			protocol.ByteVar(protocol.VarBetaUser, boolByte(rec.Beta)),
			protocol.ByteVar(protocol.VarCitizenEnabled, boolByte(rec.Enabled)),
			protocol.ByteVar(protocol.VarCitizenPrivacy, boolByte(rec.Privacy)),
			protocol.StringVar(protocol.VarCitizenPassword, rec.Password),
			protocol.StringVar(protocol.VarCitizenEmail, rec.Email),
			protocol.StringVar(protocol.VarCitizenPrivilegePassword, rec.PrivilegePassword),
			// Preserved duplicate: CitizenImmigration is emitted again here,
			// matching the original protocol's repeated field.
			protocol.UintVar(protocol.VarCitizenImmigration, rec.Immigration),
		)
	}

	if admin {
		vars = append(vars,
			protocol.StringVar(protocol.VarCitizenComment, rec.Comment),
			protocol.UintVar(protocol.VarIdentifyUserIP, rec.LastAddress),
		)
	}

	return vars
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ChangeRequest carries a citizen record edit as decoded off the wire. Only
// Set fields are applied; unset fields retain their stored value.
type ChangeRequest struct {
	CitizenID uint32
	Name      *string
	Password  *string
	Email     *string
	Comment   *string
	URL       *string
	Privacy   *bool

	// Admin-only fields; ignored unless the requester is an admin.
	BotLimit *int32
	Enabled  *bool
}

// Change applies req to the stored citizen record, enforcing that only the
// citizen themselves or an admin may make the change, that admin-only
// fields are silently retained when the requester isn't an admin, and that
// renaming to a name already in use is rejected rather than applied.
func (s *Service) Change(requesterID uint32, requesterIsAdmin bool, req ChangeRequest) session.ReasonCode {
	rec, ok := s.db.CitizenByNumber(req.CitizenID)
	if !ok {
		return session.NoSuchCitizen
	}
	if requesterID != req.CitizenID && !requesterIsAdmin {
		return session.Unauthorized
	}

	updated := rec
	if req.Name != nil && *req.Name != rec.Name {
		if _, taken := s.db.CitizenByName(*req.Name); taken {
			return session.NameAlreadyUsed
		}
		updated.Name = *req.Name
	}
	if req.Password != nil {
		updated.Password = *req.Password
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.Comment != nil {
		updated.Comment = *req.Comment
	}
	if req.URL != nil {
		updated.URL = *req.URL
	}
	if req.Privacy != nil {
		updated.Privacy = *req.Privacy
	}

	if requesterIsAdmin {
		if req.BotLimit != nil {
			updated.BotLimit = *req.BotLimit
		}
		if req.Enabled != nil {
			updated.Enabled = *req.Enabled
		}
	}
	// Non-admin requests that include BotLimit/Enabled are not errors; the
	// original fields are simply retained untouched.

	if err := s.db.CitizenChange(updated); err != nil {
		return session.UnableToChangeCitizen
	}
	return session.Success
}

// Add creates a new citizen record, rejecting a name collision.
func (s *Service) Add(rec database.CitizenRecord) session.ReasonCode {
	if _, taken := s.db.CitizenByName(rec.Name); taken {
		return session.NameAlreadyUsed
	}
	if err := s.db.CitizenAdd(rec); err != nil {
		return session.UnableToChangeCitizen
	}
	return session.Success
}

// Delete removes a citizen record. Only an admin may delete.
func (s *Service) Delete(requesterIsAdmin bool, citizenID uint32) session.ReasonCode {
	if !requesterIsAdmin {
		return session.Unauthorized
	}
	if err := s.db.CitizenDelete(citizenID); err != nil {
		return session.NoSuchCitizen
	}
	return session.Success
}
