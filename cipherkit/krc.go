package cipherkit

import "lyrics-fetch-go/lyricserr"

// krcKey is KRC's fixed XOR keystream, cycled by byte position.
var krcKey = []byte("@Gaw^2tGQ61-\xce\xd2ni")

// DecryptKRC strips KRC's 4-byte magic header, XORs the remainder against
// krcKey cycled by position, inflates, and decodes as UTF-8.
func DecryptKRC(encrypted []byte) (string, error) {
	if len(encrypted) < 4 {
		return "", lyricserr.NewDecryptError("KRC decrypt failed", nil)
	}
	data := append([]byte(nil), encrypted[4:]...)
	for i := range data {
		data[i] ^= krcKey[i%len(krcKey)]
	}
	out, err := inflate(data)
	if err != nil {
		return "", lyricserr.NewDecryptError("KRC decrypt failed", err)
	}
	return out, nil
}
