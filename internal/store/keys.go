package store

import "strings"

// keySeparator joins key parts into a single map key. The unit separator
// cannot appear in dates, repo names, referrers or asset names, so joined
// keys stay unambiguous.
const keySeparator = "\x1f"

// KeySet holds the natural keys already present in a table. It is the sole
// deduplication mechanism: a collector checks membership before every
// append and adds the key after, so later collectors in the same run see
// rows written earlier.
type KeySet map[string]struct{}

// KeyOf builds a key from its ordered parts.
func KeyOf(parts ...string) string {
	return strings.Join(parts, keySeparator)
}

// Has reports whether the key is present.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add records a key as present.
func (s KeySet) Add(key string) {
	s[key] = struct{}{}
}

// LoadKeys reads an existing table and returns the set of natural keys it
// contains, one per row, built from the named key fields in order. Fields
// missing from the file contribute empty strings. A missing file yields an
// empty set.
func LoadKeys(path string, keyFields []string) (KeySet, error) {
	rows, err := readTable(path, keyFields)
	if err != nil {
		return nil, err
	}
	keys := make(KeySet, len(rows))
	for _, row := range rows {
		keys.Add(KeyOf(row...))
	}
	return keys, nil
}
