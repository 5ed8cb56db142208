// Package fingerprint derives stable identities for (operation, arguments)
// pairs, used as cache and lookup keys.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a deterministic digest of the operation name and its
// canonicalized arguments. encoding/json marshals string-keyed maps with
// sorted keys, so insertion order of the caller-supplied map never changes
// the result. nil arguments hash the same as an empty map.
func Fingerprint(operation string, args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}

	canonical, err := json.Marshal(args)
	if err != nil {
		// Non-JSON values should not occur for decoded hook input; fall
		// back to a stable textual rendering rather than failing.
		canonical = []byte(fmt.Sprintf("%v", args))
	}

	sum := sha256.Sum256([]byte(operation + ":" + string(canonical)))
	return hex.EncodeToString(sum[:])
}
