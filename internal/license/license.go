// Package license issues the UniverseLicense blob attached to every login
// response and keeps a bounded history of recent grants for diagnostics.
// Minting and validating the real license format is out of scope for this
// service; Issuer is the seam a concrete issuer plugs into.
package license

import (
	"sync"

	"github.com/Faultbox/universed/internal/logger"
	"github.com/rs/xid"
	"go.uber.org/zap"
)

// Issuer produces the opaque license payload for a given client build
// number. The wire format and cryptographic contents are defined outside
// this service.
type Issuer interface {
	CreateLicenseData(browserBuild int32) []byte
}

// Grant records one issued license for RecentGrants.
type Grant struct {
	ID           string
	BrowserBuild int32
}

// Tracker wraps an Issuer and keeps a ring buffer of the most recently
// issued grants, each stamped with a collision-resistant id.
type Tracker struct {
	issuer Issuer
	size   int

	mu     sync.Mutex
	grants []Grant
}

// NewTracker wraps issuer, retaining up to historySize recent grants.
func NewTracker(issuer Issuer, historySize int) *Tracker {
	return &Tracker{issuer: issuer, size: historySize}
}

// CreateLicenseData issues a license via the wrapped Issuer and records the
// grant.
func (t *Tracker) CreateLicenseData(browserBuild int32) []byte {
	data := t.issuer.CreateLicenseData(browserBuild)

	grant := Grant{ID: xid.New().String(), BrowserBuild: browserBuild}
	t.mu.Lock()
	t.grants = append(t.grants, grant)
	if len(t.grants) > t.size {
		t.grants = t.grants[len(t.grants)-t.size:]
	}
	t.mu.Unlock()

	logger.Named("license").Debug("issued license",
		zap.String("grant_id", grant.ID), zap.Int32("browser_build", browserBuild))

	return data
}

// RecentGrants returns a copy of the most recently issued grants, oldest
// first.
func (t *Tracker) RecentGrants() []Grant {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Grant, len(t.grants))
	copy(out, t.grants)
	return out
}

// StaticIssuer is a minimal Issuer that returns a fixed payload for every
// build, useful for tests and for running without a real licensing
// backend wired in.
type StaticIssuer struct {
	Payload []byte
}

func (s StaticIssuer) CreateLicenseData(int32) []byte {
	return s.Payload
}
