package cipherkit

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/forgoer/openssl"
)

func deflate(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("deflate write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("deflate close: %v", err)
	}
	return buf.Bytes()
}

func TestDecryptQRCRoundTrip(t *testing.T) {
	want := "[00:01.000]hello world"
	deflated := deflate(t, want)

	// Des3ECBEncrypt with padding="" leaves the caller responsible for
	// block-aligning input, matching the reference's unpadded per-block loop.
	padded := deflated
	if r := len(padded) % 8; r != 0 {
		padded = append(padded, make([]byte, 8-r)...)
	}
	cipherText, err := openssl.Des3ECBEncrypt(padded, qrcKey, "")
	if err != nil {
		t.Fatalf("Des3ECBEncrypt: %v", err)
	}

	got, err := DecryptQRC(cipherText, false)
	if err != nil {
		t.Fatalf("DecryptQRC: %v", err)
	}
	if got != want {
		t.Errorf("DecryptQRC round trip = %q, want %q", got, want)
	}
}

func TestDecryptQRCEmptyInput(t *testing.T) {
	if _, err := DecryptQRC(nil, false); err == nil {
		t.Error("DecryptQRC(nil) = nil error, want error")
	}
}

func TestQMC1DecryptIsInvolution(t *testing.T) {
	orig := []byte("0123456789abcdefghij")
	buf := append([]byte(nil), orig...)
	qmc1Decrypt(buf)
	qmc1Decrypt(buf)
	if !bytes.Equal(buf, orig) {
		t.Errorf("qmc1Decrypt applied twice = %q, want %q", buf, orig)
	}
}

func TestDecryptKRCRoundTrip(t *testing.T) {
	want := "[ti:song]\n[ar:artist]\n[00:01.00]hi"
	deflated := deflate(t, want)

	xored := append([]byte(nil), deflated...)
	for i := range xored {
		xored[i] ^= krcKey[i%len(krcKey)]
	}
	encrypted := append([]byte{0x4b, 0x52, 0x31, 0x00}, xored...)

	got, err := DecryptKRC(encrypted)
	if err != nil {
		t.Fatalf("DecryptKRC: %v", err)
	}
	if got != want {
		t.Errorf("DecryptKRC round trip = %q, want %q", got, want)
	}
}

func TestDecryptKRCTooShort(t *testing.T) {
	if _, err := DecryptKRC([]byte{1, 2, 3}); err == nil {
		t.Error("DecryptKRC(too short) = nil error, want error")
	}
}

func TestEAPIParamsRoundTrip(t *testing.T) {
	params := map[string]any{"id": "12345", "lv": "-1"}
	encoded, err := EncryptEAPIParams([]byte("/api/song/lyric/v1"), params)
	if err != nil {
		t.Fatalf("EncryptEAPIParams: %v", err)
	}
	if !bytes.HasPrefix(encoded, []byte("params=")) {
		t.Fatalf("encoded body missing params= prefix: %q", encoded)
	}
}

func TestDecryptEAPIResponse(t *testing.T) {
	want := []byte(`{"code":200,"id":"12345"}`)
	encrypted, err := openssl.AesECBEncrypt(want, eapiKey, openssl.PKCS7_PADDING)
	if err != nil {
		t.Fatalf("AesECBEncrypt: %v", err)
	}
	got, err := DecryptEAPIResponse(encrypted)
	if err != nil {
		t.Fatalf("DecryptEAPIResponse: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("DecryptEAPIResponse = %q, want %q", got, want)
	}
}
