package httpinterface

import (
	"errors"
	"net/http"

	"github.com/shareswap/poold/internal/core/application"
	apppubsub "github.com/shareswap/poold/internal/core/application/pubsub"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/infrastructure/auth"
	"github.com/shareswap/poold/internal/infrastructure/pubsub"
	"github.com/shareswap/poold/pkg/mathutil"
	log "github.com/sirupsen/logrus"
)

var statusByError = map[error]int{
	domain.ErrPoolNotFound:         http.StatusNotFound,
	domain.ErrAccountNotFound:      http.StatusNotFound,
	pubsub.ErrSubscriptionNotFound: http.StatusNotFound,

	domain.ErrPoolAlreadyExists: http.StatusConflict,
	domain.ErrPoolPaused:        http.StatusConflict,

	domain.ErrNotAdmin:            http.StatusForbidden,
	application.ErrNotOperator:    http.StatusForbidden,
	application.ErrFaucetDisabled: http.StatusForbidden,

	application.ErrWebhookManagerNotInitialized: http.StatusServiceUnavailable,

	domain.ErrMissingSignature: http.StatusUnauthorized,
	auth.ErrInvalidSignature:   http.StatusUnauthorized,
	auth.ErrExpiredRequest:     http.StatusUnauthorized,
	auth.ErrReplayedRequest:    http.StatusUnauthorized,

	auth.ErrInvalidPubkey:             http.StatusBadRequest,
	application.ErrInvalidFaucetAsset: http.StatusBadRequest,
	apppubsub.ErrInvalidEndpoint:      http.StatusBadRequest,
	pubsub.ErrInvalidEndpoint:         http.StatusBadRequest,
	pubsub.ErrInvalidTopic:            http.StatusBadRequest,

	domain.ErrPoolInvalidAssetA:    http.StatusBadRequest,
	domain.ErrPoolInvalidAssetB:    http.StatusBadRequest,
	domain.ErrPoolSameAsset:        http.StatusBadRequest,
	domain.ErrPoolInvalidAdmin:     http.StatusBadRequest,
	domain.ErrInvalidAmount:        http.StatusBadRequest,
	domain.ErrInvalidSwapAsset:     http.StatusBadRequest,
	domain.ErrInvalidSwapDirection: http.StatusBadRequest,
	domain.ErrInvalidFee:           http.StatusBadRequest,
	domain.ErrInvalidAccount:       http.StatusBadRequest,
	domain.ErrUnknownEventType:     http.StatusBadRequest,

	domain.ErrSlippageExceeded:       http.StatusUnprocessableEntity,
	domain.ErrNonProportionalDeposit: http.StatusUnprocessableEntity,
	domain.ErrInsufficientLiquidity:  http.StatusUnprocessableEntity,
	domain.ErrInsufficientBalance:    http.StatusUnprocessableEntity,
	domain.ErrAccountAssetMismatch:   http.StatusUnprocessableEntity,
	mathutil.ErrMathOverflow:         http.StatusUnprocessableEntity,
}

// writeServiceError maps errors returned by the application layer to HTTP
// statuses. Unknown errors are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var herr httpError
	if errors.As(err, &herr) {
		writeError(w, herr, http.StatusBadRequest)
		return
	}

	for e, status := range statusByError {
		if errors.Is(err, e) {
			writeError(w, e, status)
			return
		}
	}

	log.WithError(err).Warn("http: internal error")
	writeError(w, application.ErrServiceUnavailable, http.StatusInternalServerError)
}
