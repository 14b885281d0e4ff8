package httpinterface

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/infrastructure/auth"
)

type handler struct {
	poolSvc   application.PoolService
	pubsubSvc application.PubSubService
	verifier  *auth.Verifier
	noAuth    bool
	operator  string
}

func newRouter(h *handler) *httprouter.Router {
	r := httprouter.New()

	r.GET("/v1/pools", h.listPools)
	r.POST("/v1/pools", h.createPool)
	r.GET("/v1/pools/:pool", h.getPool)
	r.GET("/v1/pools/:pool/price", h.getSpotPrice)
	r.GET("/v1/pools/:pool/events", h.listPoolEvents)
	r.GET("/v1/pairs/:assetA/:assetB", h.getPoolByAssets)

	r.POST("/v1/pools/:pool/deposit", h.deposit)
	r.POST("/v1/pools/:pool/withdraw", h.withdraw)
	r.POST("/v1/pools/:pool/swap", h.swap)
	r.POST("/v1/pools/:pool/quote/deposit", h.quoteDeposit)
	r.POST("/v1/pools/:pool/quote/withdraw", h.quoteWithdraw)
	r.POST("/v1/pools/:pool/quote/swap", h.quoteSwap)

	r.POST("/v1/pools/:pool/fees/withdraw", h.withdrawProtocolFees)
	r.POST("/v1/pools/:pool/pause", h.setPause)
	r.POST("/v1/pools/:pool/admin", h.setAdmin)

	r.GET("/v1/events", h.listEvents)
	r.GET("/v1/events/stream", h.streamEvents)
	r.GET("/v1/balances/:owner", h.getBalances)
	r.POST("/v1/faucet", h.faucet)

	r.GET("/v1/webhooks", h.listWebhooks)
	r.POST("/v1/webhooks", h.addWebhook)
	r.DELETE("/v1/webhooks/:id", h.removeWebhook)

	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (h *handler) listPools(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	pools, err := h.poolSvc.ListPools(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res := make([]poolResponse, 0, len(pools))
	for _, p := range pools {
		res = append(res, newPoolResponse(p))
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *handler) createPool(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := createPoolRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	admin, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	info, err := h.poolSvc.CreatePool(r.Context(), req.AssetA, req.AssetB, admin)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, newPoolResponse(*info), http.StatusCreated)
}

func (h *handler) getPool(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	info, err := h.poolSvc.GetPool(r.Context(), ps.ByName("pool"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, newPoolResponse(*info), http.StatusOK)
}

func (h *handler) getPoolByAssets(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	info, err := h.poolSvc.GetPoolByAssets(
		r.Context(), ps.ByName("assetA"), ps.ByName("assetB"),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, newPoolResponse(*info), http.StatusOK)
}

func (h *handler) getSpotPrice(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	price, err := h.poolSvc.GetSpotPrice(r.Context(), ps.ByName("pool"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, priceResponse{price.PriceA, price.PriceB}, http.StatusOK)
}

func (h *handler) deposit(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := depositRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	user, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.Deposit(
		r.Context(), ps.ByName("pool"), user,
		req.AmountA, req.AmountB, req.MinSharesOut,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, depositResponse(*res), http.StatusOK)
}

func (h *handler) quoteDeposit(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := depositRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.QuoteDeposit(
		r.Context(), ps.ByName("pool"), req.AmountA, req.AmountB,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, depositResponse(*res), http.StatusOK)
}

func (h *handler) withdraw(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := withdrawRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	user, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.Withdraw(
		r.Context(), ps.ByName("pool"), user,
		req.Shares, req.MinAmountA, req.MinAmountB,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, withdrawResponse(*res), http.StatusOK)
}

func (h *handler) quoteWithdraw(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := withdrawRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.QuoteWithdraw(r.Context(), ps.ByName("pool"), req.Shares)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, withdrawResponse(*res), http.StatusOK)
}

func (h *handler) swap(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := swapRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	args, err := req.toDomain()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	user, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.Swap(r.Context(), ps.ByName("pool"), user, args)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, newSwapResponse(res), http.StatusOK)
}

func (h *handler) quoteSwap(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := swapRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	args, err := req.toDomain()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.QuoteSwap(r.Context(), ps.ByName("pool"), args)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, newSwapResponse(res), http.StatusOK)
}

func (h *handler) withdrawProtocolFees(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := withdrawFeesRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	caller, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res, err := h.poolSvc.WithdrawProtocolFees(
		r.Context(), ps.ByName("pool"), caller, req.AmountA, req.AmountB,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, withdrawFeesRequest(*res), http.StatusOK)
}

func (h *handler) setPause(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := pauseRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	caller, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.poolSvc.SetPause(
		r.Context(), ps.ByName("pool"), caller, req.Paused,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, req, http.StatusOK)
}

// setAdmin rotates the admin of a pool. The new admin is the co-signer of
// the request.
func (h *handler) setAdmin(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	caller, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	newAdmin, err := h.cosigner(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.poolSvc.SetAdmin(
		r.Context(), ps.ByName("pool"), caller, newAdmin,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"admin": newAdmin.ID}, http.StatusOK)
}

func (h *handler) listPoolEvents(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	h.writeEvents(w, r, ps.ByName("pool"))
}

func (h *handler) listEvents(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	h.writeEvents(w, r, "")
}

func (h *handler) writeEvents(
	w http.ResponseWriter, r *http.Request, poolName string,
) {
	events, err := h.poolSvc.ListEvents(r.Context(), poolName, pageFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res := make([]eventResponse, 0, len(events))
	for _, e := range events {
		res = append(res, newEventResponse(e))
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *handler) getBalances(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	balances, err := h.poolSvc.GetBalances(r.Context(), ps.ByName("owner"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, balances, http.StatusOK)
}

func (h *handler) faucet(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := faucetRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	to, err := auth.ValidatePubkey(req.To)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req.To = to
	caller, err := h.signer(r, body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.poolSvc.Faucet(
		r.Context(), caller, req.To, req.Asset, req.Amount,
	); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, req, http.StatusOK)
}

func (h *handler) listWebhooks(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	if h.pubsubSvc == nil {
		writeServiceError(w, application.ErrWebhookManagerNotInitialized)
		return
	}
	if err := h.authorizeOperator(r, nil); err != nil {
		writeServiceError(w, err)
		return
	}

	hooks, err := h.pubsubSvc.ListWebhooks(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	res := make([]webhookResponse, 0, len(hooks))
	for _, hook := range hooks {
		res = append(res, webhookResponse(hook))
	}
	writeSuccess(w, res, http.StatusOK)
}

func (h *handler) addWebhook(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	if h.pubsubSvc == nil {
		writeServiceError(w, application.ErrWebhookManagerNotInitialized)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	req := addWebhookRequest{}
	if err := unmarshalBody(body, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.authorizeOperator(r, body); err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := h.pubsubSvc.AddWebhook(
		r.Context(), req.Event, req.Endpoint, req.Secret,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"id": id}, http.StatusCreated)
}

func (h *handler) removeWebhook(
	w http.ResponseWriter, r *http.Request, ps httprouter.Params,
) {
	if h.pubsubSvc == nil {
		writeServiceError(w, application.ErrWebhookManagerNotInitialized)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.authorizeOperator(r, body); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.pubsubSvc.RemoveWebhook(r.Context(), ps.ByName("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"id": ps.ByName("id")}, http.StatusOK)
}

func (h *handler) authorizeOperator(r *http.Request, body []byte) error {
	caller, err := h.signer(r, body)
	if err != nil {
		return err
	}
	if len(h.operator) <= 0 || caller.ID != h.operator {
		return application.ErrNotOperator
	}
	if !caller.Signed {
		return domain.ErrMissingSignature
	}
	return nil
}
