package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceFingerprintDeterministic(t *testing.T) {
	a := DeviceFingerprint("PES1UG23CS001", "Mozilla/5.0")
	b := DeviceFingerprint("PES1UG23CS001", "Mozilla/5.0")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestDeviceFingerprintSensitiveToInputs(t *testing.T) {
	base := DeviceFingerprint("PES1UG23CS001", "Mozilla/5.0")

	assert.NotEqual(t, base, DeviceFingerprint("PES1UG23CS002", "Mozilla/5.0"))
	assert.NotEqual(t, base, DeviceFingerprint("PES1UG23CS001", "curl/8.0"))
}

func TestDeviceFingerprintSeparatorMatters(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide through concatenation.
	assert.NotEqual(t,
		DeviceFingerprint("ab", "c"),
		DeviceFingerprint("a", "bc"))
}
