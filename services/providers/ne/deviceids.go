package ne

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
)

// devicePool is a small static pool of plausible NetEase desktop-client
// device identifiers. The upstream client (go-musicfox) picks a random
// entry from a hardcoded pool the same way on every cold start rather than
// generating one per run; the exact upstream pool wasn't available in this
// system's reference material, so this is a same-shaped stand-in pool
// rather than a byte-for-byte port.
var devicePool = []string{
	"Windows10_PC_90_1f3f6a9e7d2b4c58",
	"Windows10_PC_90_3a8d5e1c9f7b2a46",
	"Windows10_PC_90_6c2b7f4e8a1d9053",
	"Windows10_PC_90_b47e21f0d8c5a693",
}

func getDeviceID() string {
	return devicePool[rand.Intn(len(devicePool))]
}

// getAnonymousUsername derives a stable pseudo-username from deviceID, the
// way an anonymous-registration client needs a username string to send but
// doesn't need it to be human-meaningful.
func getAnonymousUsername(deviceID string) string {
	sum := md5.Sum([]byte(deviceID))
	return hex.EncodeToString(sum[:])[:16]
}
