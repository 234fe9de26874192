// Package cryptox holds the authenticated-encryption helpers used to keep
// cached profile data unreadable and tamper-evident at rest.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aydevelopers/adminconsole/internal/common"
	"golang.org/x/crypto/argon2"
)

// envelopePrefix tags the sealed string format so a future format can be
// told apart from this one.
const envelopePrefix = "v1."

// keySalt is fixed: the key is derived from a shared application secret,
// not from a per-user password, so every process must arrive at the same key.
var keySalt = []byte("adminconsole/credential-cache/v1")

var (
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrDecrypt           = errors.New("decryption failed")
)

// DeriveKey stretches secret into a 32-byte AES-256 key with Argon2id.
func DeriveKey(secret []byte) []byte {
	return argon2.IDKey(secret, keySalt, 1, 64*1024, 4, 32)
}

// EncryptEntry serializes entry to JSON and encrypts it with AES-GCM under
// key. A fresh 12-byte nonce is generated for each call.
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptEntry reverses EncryptEntry and unmarshals the plaintext into v.
// Any authentication failure is reported as ErrDecrypt.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return ErrMalformedEnvelope
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecrypt
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}

// Seal encrypts v and packs nonce and ciphertext into a single printable
// string: "v1." + base64(nonce || ciphertext).
func Seal(v any, key []byte) (string, error) {
	ciphertext, nonce, err := EncryptEntry(v, key)
	if err != nil {
		return "", err
	}
	packed := make([]byte, 0, len(nonce)+len(ciphertext))
	packed = append(packed, nonce...)
	packed = append(packed, ciphertext...)
	return envelopePrefix + base64.StdEncoding.EncodeToString(packed), nil
}

// Open unpacks a string produced by Seal and decrypts it into v.
func Open(sealed string, key []byte, v any) error {
	body, ok := strings.CutPrefix(sealed, envelopePrefix)
	if !ok {
		return ErrMalformedEnvelope
	}
	packed, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return ErrMalformedEnvelope
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	ns := aesgcm.NonceSize()
	if len(packed) < ns+aesgcm.Overhead() {
		return ErrMalformedEnvelope
	}

	return DecryptEntry(packed[ns:], packed[:ns], key, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
