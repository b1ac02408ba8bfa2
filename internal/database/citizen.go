// Package database defines the citizen directory storage contract. This
// service never persists to disk itself; concrete backings implement
// CitizenDB and are wired in by the caller.
package database

// CitizenRecord is the full stored shape of one citizen. Field projection
// for wire responses (public / self-or-admin / admin-only tiers) happens
// above this layer, in the directory package -- CitizenDB always returns
// the complete record.
type CitizenRecord struct {
	CitizenID           uint32
	Name                string
	Password            string
	Email               string
	PrivilegePassword   string
	Comment             string
	URL                 string
	Immigration         uint32
	Expiration          uint32
	LastLogin           uint32
	LastAddress         uint32
	TotalTime           uint32
	BotLimit            int32
	Beta                bool
	Trial               bool
	CAVEnabled          bool
	CAVTemplate         uint32
	Enabled             bool
	Privacy             bool
	PrivilegeID         uint32
}

// ContactRecord is one entry in a citizen's contact list.
type ContactRecord struct {
	OwnerCitizenID   uint32
	ContactCitizenID uint32
	Name             string
}

// CitizenDB is the storage contract the directory and presence packages
// depend on. Implementations are free to back it with anything; the
// in-memory implementation in memorydb is what this service wires by
// default since long-term persistence is out of scope here.
type CitizenDB interface {
	CitizenByNumber(id uint32) (CitizenRecord, bool)
	CitizenByName(name string) (CitizenRecord, bool)

	// CitizenNext returns the smallest stored citizen number greater than
	// after, if any.
	CitizenNext(after uint32) (CitizenRecord, bool)
	// CitizenPrev returns the largest stored citizen number less than
	// before, if any.
	CitizenPrev(before uint32) (CitizenRecord, bool)

	CitizenAdd(rec CitizenRecord) error
	CitizenChange(rec CitizenRecord) error
	CitizenDelete(id uint32) error

	ContactsOf(citizenID uint32) []ContactRecord
}
