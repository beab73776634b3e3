package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeviceFingerprint derives the stateless device identity for a login. There
// is no device registry; the hash of identifier and user agent is the sole
// session partition key and is recomputed on every request.
func DeviceFingerprint(collegeID, userAgent string) string {
	sum := sha256.Sum256([]byte(collegeID + "::" + userAgent))
	return hex.EncodeToString(sum[:])
}
