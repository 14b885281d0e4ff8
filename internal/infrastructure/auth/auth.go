// Package auth proves that a caller controls the identity it claims.
// Identities are hex encoded compressed secp256k1 public keys, requests are
// signed with BIP-340 schnorr signatures over RequestHash.
package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// DefaultMaxClockSkew is the max distance between the timestamp of a signed
// request and the local time.
const DefaultMaxClockSkew = 5 * time.Minute

var (
	// ErrInvalidPubkey is returned if an identity is not a valid hex encoded
	// compressed public key.
	ErrInvalidPubkey = errors.New("invalid pubkey")
	// ErrInvalidSignature is returned if a signature is malformed or doesn't
	// match the request and the pubkey.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrExpiredRequest is returned if the timestamp of a request is too far
	// from the local time.
	ErrExpiredRequest = errors.New("request timestamp out of range")
	// ErrReplayedRequest is returned if a signed request was already accepted
	// within the clock skew window.
	ErrReplayedRequest = errors.New("request already processed")
)

// RequestHash returns the digest a caller signs to authenticate a request.
func RequestHash(method, path string, timestamp int64, body []byte) []byte {
	msg := fmt.Sprintf(
		"%s\n%s\n%d\n%x", method, path, timestamp, chainhash.HashB(body),
	)
	return chainhash.HashB([]byte(msg))
}

// Sign returns the hex encoded schnorr signature of hash.
func Sign(key *btcec.PrivateKey, hash []byte) (string, error) {
	sig, err := schnorr.Sign(key, hash)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig.Serialize()), nil
}

// ParsePrivateKey decodes a hex private key and returns it together with the
// identity it controls.
func ParsePrivateKey(keyHex string) (*btcec.PrivateKey, string, error) {
	buf, err := hex.DecodeString(keyHex)
	if err != nil || len(buf) != 32 {
		return nil, "", fmt.Errorf("private key must be a 32-byte hex string")
	}
	key, pubkey := btcec.PrivKeyFromBytes(buf)
	return key, hex.EncodeToString(pubkey.SerializeCompressed()), nil
}

// NewPrivateKey generates a random key and returns it in hex format together
// with the identity it controls.
func NewPrivateKey() (string, string, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(key.Serialize()),
		hex.EncodeToString(key.PubKey().SerializeCompressed()), nil
}

// ValidatePubkey checks that pubkey is a hex encoded compressed public key
// and returns its canonical lowercase encoding.
func ValidatePubkey(pubkey string) (string, error) {
	key, err := parsePubkey(pubkey)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key.SerializeCompressed()), nil
}

type Verifier struct {
	maxClockSkew time.Duration
	now          func() time.Time

	lock sync.Mutex
	// seen maps pubkey and request hash to the time the entry can be pruned.
	seen      map[string]time.Time
	nextPrune time.Time
}

// NewVerifier returns a Verifier rejecting requests whose timestamp is
// further than maxClockSkew from the local time.
func NewVerifier(maxClockSkew time.Duration) *Verifier {
	if maxClockSkew <= 0 {
		maxClockSkew = DefaultMaxClockSkew
	}
	return &Verifier{
		maxClockSkew: maxClockSkew,
		now:          time.Now,
		seen:         make(map[string]time.Time),
	}
}

// VerifyTimestamp checks that the unix timestamp, in milliseconds, is recent
// enough.
func (v *Verifier) VerifyTimestamp(timestamp int64) error {
	diff := v.now().Sub(time.UnixMilli(timestamp))
	if diff < 0 {
		diff = -diff
	}
	if diff > v.maxClockSkew {
		return ErrExpiredRequest
	}
	return nil
}

// Verify checks that sigHex is a valid signature of hash made by pubkey.
func (v *Verifier) Verify(pubkey, sigHex string, hash []byte) error {
	key, err := parsePubkey(pubkey)
	if err != nil {
		return err
	}

	buf, err := hex.DecodeString(sigHex)
	if err != nil {
		return ErrInvalidSignature
	}
	sig, err := schnorr.ParseSignature(buf)
	if err != nil {
		return ErrInvalidSignature
	}
	if !sig.Verify(hash, key) {
		return ErrInvalidSignature
	}
	return nil
}

// MarkUsed records that pubkey signed hash and fails with ErrReplayedRequest
// if it already did. Entries are kept until the timestamp they were signed
// with falls out of the clock skew window.
func (v *Verifier) MarkUsed(pubkey string, hash []byte, timestamp int64) error {
	key := strings.ToLower(strings.TrimSpace(pubkey)) + hex.EncodeToString(hash)
	now := v.now()
	expiry := time.UnixMilli(timestamp).Add(v.maxClockSkew)

	v.lock.Lock()
	defer v.lock.Unlock()

	if now.After(v.nextPrune) {
		for k, exp := range v.seen {
			if now.After(exp) {
				delete(v.seen, k)
			}
		}
		v.nextPrune = now.Add(v.maxClockSkew)
	}

	if exp, ok := v.seen[key]; ok && !now.After(exp) {
		return ErrReplayedRequest
	}
	v.seen[key] = expiry
	return nil
}

func parsePubkey(pubkey string) (*btcec.PublicKey, error) {
	buf, err := hex.DecodeString(strings.TrimSpace(pubkey))
	if err != nil || len(buf) != btcec.PubKeyBytesLenCompressed {
		return nil, ErrInvalidPubkey
	}
	key, err := btcec.ParsePubKey(buf)
	if err != nil {
		return nil, ErrInvalidPubkey
	}
	return key, nil
}
