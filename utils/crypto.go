package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// sealedFormatVersion is the current version of the sealed blob format.
const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when a sealed blob cannot be opened.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted data")

// GenerateDeviceFingerprint 디바이스 정보로 핑거프린트 생성
func GenerateDeviceFingerprint(clientID, cpuID, motherboardSN, macAddr, diskSerial, machineID string) string {
	data := strings.Join([]string{
		clientID,
		cpuID,
		motherboardSN,
		macAddr,
		diskSerial,
		machineID,
	}, "|")

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ScryptParams are the key derivation tunables stored alongside a sealed blob.
type ScryptParams struct {
	N int `json:"scrypt_N"`
	R int `json:"scrypt_r"`
	P int `json:"scrypt_p"`
}

// Upper bounds accepted when reading a sealed blob. Anything larger would let
// a corrupted file demand gigabytes of memory.
const (
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16
)

// validate rejects parameters scrypt cannot use or that exceed the bounds.
func (p ScryptParams) validate() error {
	if p.N < 2 || p.N > maxScryptN || p.N&(p.N-1) != 0 ||
		p.R < 1 || p.R > maxScryptR ||
		p.P < 1 || p.P > maxScryptP {
		return fmt.Errorf("scrypt parameters out of range (N=%d r=%d p=%d)", p.N, p.R, p.P)
	}
	return nil
}

// DefaultScryptParams returns the parameters used for new blobs.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{N: 1 << 15, R: 8, P: 1}
}

type sealedBlob struct {
	V int `json:"v"`
	ScryptParams
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// Seal encrypts raw with a key derived from passphrase and returns a JSON blob.
func Seal(passphrase string, raw []byte, params ScryptParams) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt, params.N, params.R, params.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(sealedBlob{
		V:            sealedFormatVersion,
		ScryptParams: params,
		Salt:         salt,
		Nonce:        nonce,
		Cipher:       aead.Seal(nil, nonce, raw, salt),
	})
}

// Open reverses Seal.
func Open(passphrase string, b []byte) ([]byte, error) {
	var bl sealedBlob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported sealed format version %d", bl.V)
	}
	if err := bl.ScryptParams.validate(); err != nil {
		return nil, err
	}

	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(bl.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
