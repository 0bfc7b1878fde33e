package cipherkit

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/forgoer/openssl"

	"lyrics-fetch-go/lyricserr"
)

// eapiKey is NE's EAPI request-body AES-ECB key.
var eapiKey = []byte("e82ckenh8dichen8")

// EncryptEAPIParams serializes params as compact JSON and returns the
// urlencoded "params=<uppercase-hex AES-ECB ciphertext>" request body NE's
// EAPI endpoints expect. apiPath is the "/api/..." form of the endpoint
// (eapi/... with "eapi" swapped for "api"), matching the tag NE itself signs.
func EncryptEAPIParams(apiPath []byte, params map[string]any) ([]byte, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, lyricserr.NewProcessingError("eapi params encode failed", err)
	}

	message := "nobody" + string(apiPath) + "use" + string(body) + "md5forencrypt"
	digest := md5.Sum([]byte(message))
	digestHex := hex.EncodeToString(digest[:])

	dd := string(apiPath) + "-36cd479b6b5-" + string(body) + "-36cd479b6b5-" + digestHex

	encrypted, err := openssl.AesECBEncrypt([]byte(dd), eapiKey, openssl.PKCS7_PADDING)
	if err != nil {
		return nil, lyricserr.NewDecryptError("eapi encrypt failed", err)
	}

	payload := strings.ToUpper(hex.EncodeToString(encrypted))
	return []byte("params=" + payload), nil
}

// DecryptEAPIResponse decrypts an EAPI response body (raw AES-ECB
// ciphertext, not hex-encoded) and returns the plaintext JSON bytes.
func DecryptEAPIResponse(body []byte) ([]byte, error) {
	plain, err := openssl.AesECBDecrypt(body, eapiKey, openssl.PKCS7_PADDING)
	if err != nil {
		return nil, lyricserr.NewDecryptError("eapi decrypt failed", err)
	}
	return plain, nil
}
