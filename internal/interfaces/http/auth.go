package httpinterface

import (
	"net/http"
	"strconv"

	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/infrastructure/auth"
)

const (
	PubkeyHeader            = "X-Pool-Pubkey"
	TimestampHeader         = "X-Pool-Timestamp"
	SignatureHeader         = "X-Pool-Signature"
	CosignerPubkeyHeader    = "X-Pool-Cosigner-Pubkey"
	CosignerSignatureHeader = "X-Pool-Cosigner-Signature"
)

var errInvalidTimestamp = newError("invalid request timestamp")

// signer returns the identity of the caller. The signer is marked as signed
// only if the request carries a valid signature for it, or if auth is
// disabled.
func (h *handler) signer(r *http.Request, body []byte) (domain.Signer, error) {
	return h.signerFromHeaders(r, body, PubkeyHeader, SignatureHeader)
}

// cosigner returns the identity co-signing the request, if any.
func (h *handler) cosigner(r *http.Request, body []byte) (domain.Signer, error) {
	return h.signerFromHeaders(
		r, body, CosignerPubkeyHeader, CosignerSignatureHeader,
	)
}

func (h *handler) signerFromHeaders(
	r *http.Request, body []byte, pubkeyHeader, sigHeader string,
) (domain.Signer, error) {
	pubkey, err := auth.ValidatePubkey(r.Header.Get(pubkeyHeader))
	if err != nil {
		return domain.Signer{}, err
	}
	if h.noAuth {
		return domain.NewSigner(pubkey), nil
	}

	sig := r.Header.Get(sigHeader)
	if len(sig) <= 0 {
		return domain.Signer{ID: pubkey}, nil
	}

	timestamp, err := strconv.ParseInt(r.Header.Get(TimestampHeader), 10, 64)
	if err != nil {
		return domain.Signer{}, errInvalidTimestamp
	}
	if err := h.verifier.VerifyTimestamp(timestamp); err != nil {
		return domain.Signer{}, err
	}

	hash := auth.RequestHash(r.Method, r.URL.Path, timestamp, body)
	if err := h.verifier.Verify(pubkey, sig, hash); err != nil {
		return domain.Signer{}, err
	}
	if err := h.verifier.MarkUsed(pubkey, hash, timestamp); err != nil {
		return domain.Signer{}, err
	}
	return domain.NewSigner(pubkey), nil
}
