package cashflow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/SscSPs/cash_flow_app/internal/core/domain"
)

// IDLength is the number of hex characters kept from the hash of an identifier.
const IDLength = 12

// maxIDAttempts bounds the retry loop when a generated id is already taken.
const maxIDAttempts = 16

// KeyStrategy selects how imported and stored records are matched.
type KeyStrategy string

const (
	// KeyNatural matches on (original due date, counterparty name). Records sharing that pair
	// all receive the same override.
	KeyNatural KeyStrategy = "natural"
	// KeySurrogate matches on the record id, falling back to the natural key for records
	// without one.
	KeySurrogate KeyStrategy = "surrogate"
)

// ParseKeyStrategy maps a configuration value to a KeyStrategy. Empty means KeyNatural.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	switch KeyStrategy(s) {
	case "", KeyNatural:
		return KeyNatural, nil
	case KeySurrogate:
		return KeySurrogate, nil
	}
	return "", fmt.Errorf("unknown reconcile key strategy %q (expected %q or %q)", s, KeyNatural, KeySurrogate)
}

func hashToken(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{'_'})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:IDLength]
}

// SurrogateID is the stable content id of a row: a hash of its identifying columns plus the
// number of identical rows seen before it in the same batch.
func SurrogateID(item domain.CashItem, occurrence int) string {
	return hashToken(item.IdentityKey(), strconv.Itoa(occurrence))
}

// AssignSurrogateIDs sets the id of every record that has none. Identical rows inside one batch
// get distinct ids through their occurrence counter. It returns the number of ids assigned.
func AssignSurrogateIDs(items []domain.CashItem) int {
	seen := make(map[string]int, len(items))
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID != "" {
			taken[it.ID] = struct{}{}
		}
	}
	assigned := 0
	for i := range items {
		key := items[i].IdentityKey()
		occurrence := seen[key]
		seen[key] = occurrence + 1
		if items[i].ID != "" {
			continue
		}
		id := SurrogateID(items[i], occurrence)
		for {
			if _, exists := taken[id]; !exists {
				break
			}
			occurrence++
			id = SurrogateID(items[i], occurrence)
		}
		items[i].ID = id
		taken[id] = struct{}{}
		assigned++
	}
	return assigned
}

// IDGenerator derives short ids from a record key and a fine-grained timestamp. Ids are not
// guaranteed unique; Next retries against the caller's set of taken ids.
type IDGenerator struct {
	now func() time.Time
}

// NewIDGenerator returns a generator reading time from now, or time.Now when nil.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns an id for key that is not in taken and records it there.
func (g *IDGenerator) Next(key string, taken map[string]struct{}) (string, error) {
	stamp := g.now().Format("20060102150405.000000000")
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := hashToken(key, stamp, strconv.Itoa(attempt))
		if _, exists := taken[id]; exists {
			continue
		}
		taken[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("%w: no free id for %q after %d attempts", apperrors.ErrConflict, key, maxIDAttempts)
}

// TakenIDs collects every id already used by items: record ids, installment ids and
// original-obligation back-references.
func TakenIDs(items []domain.CashItem) map[string]struct{} {
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		for _, id := range []string{it.ID, it.InstallmentID, it.OriginalObligationID} {
			if id != "" {
				taken[id] = struct{}{}
			}
		}
	}
	return taken
}
