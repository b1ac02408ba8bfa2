// Package telegram holds short messages addressed between citizens while
// they wait for pickup. Bodies live only in memory for the lifetime of the
// process: nothing here is written to a database, matching the exclusion
// of persistent telegram storage from this service's scope.
package telegram

import (
	"sync"
)

// Telegram is one message waiting in a recipient's mailbox.
type Telegram struct {
	FromCitizenID uint32
	FromName      string
	Message       string
	SentAt        int64
}

// maxMailboxSize bounds how many telegrams accumulate for one citizen
// before the oldest are dropped, so an offline citizen with an active
// admirer can't grow the service's memory without bound.
const maxMailboxSize = 200

// Mailboxes is the live, per-citizen set of undelivered telegrams.
type Mailboxes struct {
	mu   sync.Mutex
	byID map[uint32][]Telegram
}

// New returns an empty set of mailboxes.
func New() *Mailboxes {
	return &Mailboxes{byID: make(map[uint32][]Telegram)}
}

// Queue appends t to recipient's mailbox, trimming the oldest entry if the
// mailbox is already at capacity.
func (m *Mailboxes) Queue(recipient uint32, t Telegram) {
	m.mu.Lock()
	defer m.mu.Unlock()
	box := append(m.byID[recipient], t)
	if len(box) > maxMailboxSize {
		box = box[len(box)-maxMailboxSize:]
	}
	m.byID[recipient] = box
}

// Drain removes and returns every telegram waiting for recipient.
func (m *Mailboxes) Drain(recipient uint32) []Telegram {
	m.mu.Lock()
	defer m.mu.Unlock()
	box := m.byID[recipient]
	delete(m.byID, recipient)
	return box
}

// Pending reports how many telegrams are waiting for recipient, without
// removing them.
func (m *Mailboxes) Pending(recipient uint32) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID[recipient])
}
