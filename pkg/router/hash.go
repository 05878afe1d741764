package router

import (
	"crypto/md5"
	"encoding/hex"
)

// RouteHash returns a stable 32-character hex digest of a route name. The
// digest is used as an identifier in generated artifacts, so one that would
// start with a digit is prefixed with "_" to stay a valid symbol name.
// Content addressing only; not security sensitive.
func RouteHash(name string) string {
	sum := md5.Sum([]byte(name))
	digest := hex.EncodeToString(sum[:])
	if digest[0] >= '0' && digest[0] <= '9' {
		return "_" + digest
	}
	return digest
}
