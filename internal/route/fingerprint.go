package route

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

const separator = "|"

// Fingerprint digests the distinct set of visited cell ids into a stable
// lowercase hex string. Cells are sorted before joining so two traversals of
// the same cells produce the same fingerprint regardless of direction or
// first-touch order.
func Fingerprint(cellIDs []string) string {
	distinct := make([]string, 0, len(cellIDs))
	seen := make(map[string]struct{}, len(cellIDs))
	for _, id := range cellIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	sort.Strings(distinct)

	sum := sha256.Sum256([]byte(strings.Join(distinct, separator)))
	return hex.EncodeToString(sum[:])
}
