// Package dedupe partitions credential rows into duplicate groups and decides
// which members of each group survive.
package dedupe

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/normalize"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

// KeyMode selects the grouping key for one pass.
type KeyMode int

const (
	// KeyFullRow keys on every column's exact value. Run unconditionally as
	// the first pass to drop byte-identical entries.
	KeyFullRow KeyMode = iota
	// KeyURIAndUser keys on (normalized URI, username); the default for
	// automatic analysis.
	KeyURIAndUser
	// KeyURIOnly keys on the normalized URI alone, surfacing cross-account
	// duplicates on the same service for interactive review.
	KeyURIOnly
	// KeyDomainCredentials keys on (domain, username, password); the coarse
	// key the automatic domain-collapse policy operates on.
	KeyDomainCredentials
)

func (m KeyMode) String() string {
	switch m {
	case KeyFullRow:
		return "full-row"
	case KeyURIAndUser:
		return "uri+username"
	case KeyURIOnly:
		return "uri"
	case KeyDomainCredentials:
		return "domain+credentials"
	default:
		return "unknown"
	}
}

// Group is a set of rows sharing one grouping key, in original dataset order.
type Group struct {
	Key  string
	Rows []*vault.Row
}

// Contains reports whether the group holds a row with the given original
// index.
func (g Group) Contains(index int) bool {
	for _, r := range g.Rows {
		if r.Index == index {
			return true
		}
	}
	return false
}

const keySep = "\x1f"

// GroupRows buckets rows by the selected key. The partition is stable: rows
// inside a group keep dataset order, and groups are emitted in order of the
// first occurrence of their key, so the same input always yields the same
// output. Groups of size 1 are not duplicates and are dropped.
func GroupRows(rows []*vault.Row, mode KeyMode) []Group {
	buckets := make(map[string][]*vault.Row, len(rows))
	var order []string
	for _, r := range rows {
		key := rowKey(r, mode)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	var groups []Group
	for _, key := range order {
		if members := buckets[key]; len(members) > 1 {
			groups = append(groups, Group{Key: key, Rows: members})
		}
	}
	return groups
}

func rowKey(r *vault.Row, mode KeyMode) string {
	switch mode {
	case KeyFullRow:
		return fullRowKey(r)
	case KeyURIAndUser:
		return r.NormalizedURI + keySep + r.Username()
	case KeyURIOnly:
		return r.NormalizedURI
	case KeyDomainCredentials:
		return domainKey(r) + keySep + r.Username() + keySep + r.Password()
	default:
		return fullRowKey(r)
	}
}

// fullRowKey hashes every field so arbitrarily wide schemas key cheaply.
func fullRowKey(r *vault.Row) string {
	h := md5.New()
	for i, f := range r.Fields {
		if i > 0 {
			h.Write([]byte(keySep))
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// domainKey is the domain-level key of one row: the registrable domain, so
// the automatic pass collapses subdomains aggressively ("m.facebook.com"
// groups with "facebook.com"). Rows whose URI yielded no domain (free-text
// entries) fall back to their normalized key so opaque tokens still dedupe
// among themselves instead of colliding under "".
func domainKey(r *vault.Row) string {
	if r.Domain != "" {
		return normalize.Registrable(r.Domain)
	}
	return "opaque" + keySep + strings.ToLower(r.NormalizedURI)
}
