package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/gorilla/websocket"
	"github.com/shareswap/poold/internal/core/application"
	"github.com/shareswap/poold/internal/core/domain"
	"github.com/shareswap/poold/internal/infrastructure/auth"
	"github.com/shareswap/poold/internal/infrastructure/pubsub"
	"github.com/shareswap/poold/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/shareswap/poold/internal/interfaces/http"
	"github.com/stretchr/testify/require"
)

const (
	assetA = "5ac9f65c0efcc4775e0baec4ec03abdde22473cd3cf33c0419ca290e0751b225"
	assetB = "0ddfa690c7b2ba3b8ecee8200da2420fc502f57f8312c83d466b6f8dced70441"
)

type identity struct {
	key    *btcec.PrivateKey
	pubkey string
}

func newIdentity(t *testing.T) identity {
	keyHex, _, err := auth.NewPrivateKey()
	require.NoError(t, err)
	key, pubkey, err := auth.ParsePrivateKey(keyHex)
	require.NoError(t, err)
	return identity{key, pubkey}
}

var lastTimestamp int64

// requestTimestamp returns the current unix time in milliseconds, strictly
// increasing across calls so that identical requests sent back to back are
// signed differently.
func requestTimestamp() int64 {
	for {
		last := atomic.LoadInt64(&lastTimestamp)
		next := time.Now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, next) {
			return next
		}
	}
}

type testClient struct {
	t   *testing.T
	url string
}

// do sends a request signed by signer. A nil signer sends an anonymous
// request, a signer with nil key only claims the identity.
func (c testClient) do(
	method, path string, body interface{}, signer *identity,
	headers map[string]string,
) (int, []byte) {
	var buf []byte
	if body != nil {
		var err error
		buf, err = json.Marshal(body)
		require.NoError(c.t, err)
	}

	req, err := http.NewRequest(method, c.url+path, bytes.NewReader(buf))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	if signer != nil {
		req.Header.Set(httpinterface.PubkeyHeader, signer.pubkey)
		if signer.key != nil {
			timestamp := requestTimestamp()
			hash := auth.RequestHash(method, path, timestamp, buf)
			sig, err := auth.Sign(signer.key, hash)
			require.NoError(c.t, err)
			req.Header.Set(httpinterface.TimestampHeader, strconv.FormatInt(timestamp, 10))
			req.Header.Set(httpinterface.SignatureHeader, sig)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, resBody
}

func newTestServer(
	t *testing.T, noAuth bool, operator string,
) testClient {
	ps, err := pubsub.NewService(pubsub.NewInMemoryStore(), time.Second, 10)
	require.NoError(t, err)
	pubsubSvc := application.NewPubSubService(ps)
	t.Cleanup(pubsubSvc.Close)

	poolSvc, err := application.NewPoolService(
		inmemory.NewRepoManager(), pubsubSvc,
		domain.DefaultFeeBps, domain.DefaultProtocolFeeBps, operator,
	)
	require.NoError(t, err)

	server := httptest.NewServer(httpinterface.NewHandler(httpinterface.ServiceOpts{
		NoAuth:             noAuth,
		Operator:           operator,
		CORSAllowedOrigins: []string{"*"},
		PoolSvc:            poolSvc,
		PubSubSvc:          pubsubSvc,
	}))
	t.Cleanup(server.Close)

	return testClient{t, server.URL}
}

func TestPoolEndpoints(t *testing.T) {
	operator, admin, alice, bob := newIdentity(t), newIdentity(t), newIdentity(t), newIdentity(t)
	client := newTestServer(t, false, operator.pubkey)

	for _, f := range []struct {
		to     string
		asset  string
		amount uint64
	}{
		{alice.pubkey, assetA, 1000},
		{alice.pubkey, assetB, 4000},
		{bob.pubkey, assetA, 100},
	} {
		status, body := client.do(http.MethodPost, "/v1/faucet", map[string]interface{}{
			"to": f.to, "asset": f.asset, "amount": f.amount,
		}, &operator, nil)
		require.Equal(t, http.StatusOK, status, string(body))
	}

	status, body := client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetA, "asset_b": assetB,
	}, &admin, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	pool := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &pool))
	poolName := pool["name"].(string)
	require.Equal(t, domain.MakePoolName(assetA, assetB), poolName)
	strategy := pool["strategy"].(map[string]interface{})
	require.Equal(t, "constant-product", strategy["name"])
	require.NotEmpty(t, strategy["description"])

	status, _ = client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetB, "asset_b": assetA,
	}, &admin, nil)
	require.Equal(t, http.StatusConflict, status)

	status, body = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/deposit", poolName),
		map[string]uint64{"amount_a": 1000, "amount_b": 4000}, &alice, nil,
	)
	require.Equal(t, http.StatusOK, status, string(body))
	deposit := map[string]uint64{}
	require.NoError(t, json.Unmarshal(body, &deposit))
	require.Equal(t, uint64(2000), deposit["shares"])

	status, body = client.do(
		http.MethodGet, fmt.Sprintf("/v1/pools/%s/price", poolName), nil, nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"price_a":"4","price_b":"0.25"}`, string(body))

	swapReq := map[string]interface{}{
		"amount_in":         100,
		"min_amount_out":    360,
		"direction":         "a_to_b",
		"source_asset":      assetA,
		"destination_asset": assetB,
	}
	status, _ = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/swap", poolName),
		swapReq, &identity{pubkey: bob.pubkey}, nil,
	)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/quote/swap", poolName),
		swapReq, nil, nil,
	)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/swap", poolName),
		swapReq, &bob, nil,
	)
	require.Equal(t, http.StatusOK, status, string(body))
	swap := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &swap))
	require.Equal(t, float64(360), swap["amount_out"])

	status, body = client.do(
		http.MethodGet, fmt.Sprintf("/v1/balances/%s", bob.pubkey), nil, nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	balances := map[string]uint64{}
	require.NoError(t, json.Unmarshal(body, &balances))
	require.Equal(t, uint64(360), balances[assetB])

	status, _ = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/pause", poolName),
		map[string]bool{"paused": true}, &alice, nil,
	)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/pause", poolName),
		map[string]bool{"paused": true}, &admin, nil,
	)
	require.Equal(t, http.StatusOK, status)

	status, body = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/swap", poolName),
		swapReq, &bob, nil,
	)
	require.Equal(t, http.StatusConflict, status, string(body))

	status, body = client.do(
		http.MethodGet, fmt.Sprintf("/v1/pools/%s/events", poolName), nil, nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	events := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 4)
	require.Equal(t, "POOL_CREATED", events[0]["type"])
	require.Equal(t, "PAUSE", events[3]["type"])
}

func TestSetAdminEndpoint(t *testing.T) {
	admin, newAdmin := newIdentity(t), newIdentity(t)
	client := newTestServer(t, false, "")

	status, body := client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetA, "asset_b": assetB,
	}, &admin, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	path := fmt.Sprintf("/v1/pools/%s/admin", domain.MakePoolName(assetA, assetB))

	// New admin claimed but not co-signing.
	status, _ = client.do(http.MethodPost, path, nil, &admin, map[string]string{
		httpinterface.CosignerPubkeyHeader: newAdmin.pubkey,
	})
	require.Equal(t, http.StatusUnauthorized, status)

	timestamp := requestTimestamp()
	hash := auth.RequestHash(http.MethodPost, path, timestamp, nil)
	adminSig, err := auth.Sign(admin.key, hash)
	require.NoError(t, err)
	newAdminSig, err := auth.Sign(newAdmin.key, hash)
	require.NoError(t, err)

	status, body = client.do(http.MethodPost, path, nil, nil, map[string]string{
		httpinterface.PubkeyHeader:            admin.pubkey,
		httpinterface.TimestampHeader:         strconv.FormatInt(timestamp, 10),
		httpinterface.SignatureHeader:         adminSig,
		httpinterface.CosignerPubkeyHeader:    newAdmin.pubkey,
		httpinterface.CosignerSignatureHeader: newAdminSig,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = client.do(
		http.MethodGet, fmt.Sprintf("/v1/pairs/%s/%s", assetB, assetA), nil, nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	pool := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &pool))
	require.Equal(t, newAdmin.pubkey, pool["admin"])
}

func TestAuthFailures(t *testing.T) {
	admin, other := newIdentity(t), newIdentity(t)
	client := newTestServer(t, false, "")
	createReq := map[string]string{"asset_a": assetA, "asset_b": assetB}

	status, _ := client.do(http.MethodPost, "/v1/pools", createReq, nil, nil)
	require.Equal(t, http.StatusBadRequest, status)

	// Signature made by another key.
	timestamp := requestTimestamp()
	buf, _ := json.Marshal(createReq)
	sig, err := auth.Sign(other.key, auth.RequestHash(
		http.MethodPost, "/v1/pools", timestamp, buf,
	))
	require.NoError(t, err)
	status, _ = client.do(http.MethodPost, "/v1/pools", createReq, nil, map[string]string{
		httpinterface.PubkeyHeader:    admin.pubkey,
		httpinterface.TimestampHeader: strconv.FormatInt(timestamp, 10),
		httpinterface.SignatureHeader: sig,
	})
	require.Equal(t, http.StatusUnauthorized, status)

	// Stale timestamp.
	stale := time.Now().Add(-time.Hour).UnixMilli()
	sig, err = auth.Sign(admin.key, auth.RequestHash(
		http.MethodPost, "/v1/pools", stale, buf,
	))
	require.NoError(t, err)
	status, _ = client.do(http.MethodPost, "/v1/pools", createReq, nil, map[string]string{
		httpinterface.PubkeyHeader:    admin.pubkey,
		httpinterface.TimestampHeader: strconv.FormatInt(stale, 10),
		httpinterface.SignatureHeader: sig,
	})
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = client.do(http.MethodPost, "/v1/faucet", map[string]interface{}{
		"to": admin.pubkey, "asset": assetA, "amount": 10,
	}, &admin, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = client.do(
		http.MethodGet, "/v1/pools/unknown", nil, nil, nil,
	)
	require.Equal(t, http.StatusNotFound, status)
}

func TestReplayedRequest(t *testing.T) {
	admin := newIdentity(t)
	client := newTestServer(t, false, "")
	createReq := map[string]string{"asset_a": assetA, "asset_b": assetB}
	buf, err := json.Marshal(createReq)
	require.NoError(t, err)

	timestamp := requestTimestamp()
	sig, err := auth.Sign(admin.key, auth.RequestHash(
		http.MethodPost, "/v1/pools", timestamp, buf,
	))
	require.NoError(t, err)
	headers := map[string]string{
		httpinterface.PubkeyHeader:    admin.pubkey,
		httpinterface.TimestampHeader: strconv.FormatInt(timestamp, 10),
		httpinterface.SignatureHeader: sig,
	}

	status, body := client.do(http.MethodPost, "/v1/pools", createReq, nil, headers)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = client.do(http.MethodPost, "/v1/pools", createReq, nil, headers)
	require.Equal(t, http.StatusUnauthorized, status, string(body))
	require.Contains(t, string(body), auth.ErrReplayedRequest.Error())

	// The same identity claimed with an upper case pubkey is still a replay.
	headers[httpinterface.PubkeyHeader] = strings.ToUpper(admin.pubkey)
	status, _ = client.do(http.MethodPost, "/v1/pools", createReq, nil, headers)
	require.Equal(t, http.StatusUnauthorized, status)

	// A freshly signed request goes through to the service.
	status, _ = client.do(http.MethodPost, "/v1/pools", createReq, &admin, nil)
	require.Equal(t, http.StatusConflict, status)
}

func TestNoAuth(t *testing.T) {
	admin := newIdentity(t)
	client := newTestServer(t, true, "")

	status, body := client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetA, "asset_b": assetB,
	}, &identity{pubkey: admin.pubkey}, nil)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = client.do(http.MethodGet, "/v1/pools", nil, nil, nil)
	require.Equal(t, http.StatusOK, status)
	pools := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &pools))
	require.Len(t, pools, 1)
	require.Equal(t, admin.pubkey, pools[0]["admin"])
}

func TestWebhookEndpoints(t *testing.T) {
	operator, other := newIdentity(t), newIdentity(t)
	client := newTestServer(t, false, operator.pubkey)

	hook := map[string]string{
		"event":    "swap",
		"endpoint": "http://127.0.0.1:1/hook",
	}
	status, _ := client.do(http.MethodPost, "/v1/webhooks", hook, &other, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = client.do(http.MethodPost, "/v1/webhooks", map[string]string{
		"event": "unknown", "endpoint": "http://127.0.0.1:1/hook",
	}, &operator, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = client.do(http.MethodPost, "/v1/webhooks", map[string]string{
		"event": "swap", "endpoint": "ftp://127.0.0.1:1/hook",
	}, &operator, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, body := client.do(http.MethodPost, "/v1/webhooks", hook, &operator, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	res := map[string]string{}
	require.NoError(t, json.Unmarshal(body, &res))
	hookID := res["id"]
	require.NotEmpty(t, hookID)

	status, _ = client.do(http.MethodGet, "/v1/webhooks", nil, &other, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, body = client.do(http.MethodGet, "/v1/webhooks", nil, &operator, nil)
	require.Equal(t, http.StatusOK, status)
	hooks := []map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &hooks))
	require.Len(t, hooks, 1)
	require.Equal(t, hookID, hooks[0]["id"])
	require.Equal(t, false, hooks[0]["is_secured"])

	path := fmt.Sprintf("/v1/webhooks/%s", hookID)
	status, _ = client.do(http.MethodDelete, path, nil, &operator, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = client.do(http.MethodDelete, path, nil, &operator, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestStreamEvents(t *testing.T) {
	admin := newIdentity(t)
	client := newTestServer(t, false, "")

	poolName := domain.MakePoolName(assetA, assetB)
	url := "ws" + strings.TrimPrefix(client.url, "http") +
		"/v1/events/stream?pool=" + poolName
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the handler time to register its listener.
	time.Sleep(200 * time.Millisecond)

	status, body := client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetA, "asset_b": assetB,
	}, &admin, nil)
	require.Equal(t, http.StatusCreated, status, string(body))

	event := map[string]interface{}{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "POOL_CREATED", event["type"])
	require.Equal(t, poolName, event["pool"])
	require.Equal(t, admin.pubkey, event["actor"])
}

func TestPubkeyCaseInsensitive(t *testing.T) {
	operator, admin, alice := newIdentity(t), newIdentity(t), newIdentity(t)
	client := newTestServer(t, false, strings.ToUpper(operator.pubkey))

	upper := func(id identity) *identity {
		return &identity{id.key, strings.ToUpper(id.pubkey)}
	}

	status, body := client.do(http.MethodPost, "/v1/faucet", map[string]interface{}{
		"to": strings.ToUpper(alice.pubkey), "asset": assetA, "amount": 500,
	}, upper(operator), nil)
	require.Equal(t, http.StatusOK, status, string(body))

	for _, owner := range []string{alice.pubkey, strings.ToUpper(alice.pubkey)} {
		status, body = client.do(
			http.MethodGet, fmt.Sprintf("/v1/balances/%s", owner), nil, nil, nil,
		)
		require.Equal(t, http.StatusOK, status)
		balances := map[string]uint64{}
		require.NoError(t, json.Unmarshal(body, &balances))
		require.Equal(t, uint64(500), balances[assetA])
	}

	status, body = client.do(http.MethodPost, "/v1/pools", map[string]string{
		"asset_a": assetA, "asset_b": assetB,
	}, &admin, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	poolName := domain.MakePoolName(assetA, assetB)

	status, body = client.do(
		http.MethodPost, fmt.Sprintf("/v1/pools/%s/pause", poolName),
		map[string]bool{"paused": true}, upper(admin), nil,
	)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = client.do(
		http.MethodGet, fmt.Sprintf("/v1/pools/%s", poolName), nil, nil, nil,
	)
	require.Equal(t, http.StatusOK, status)
	pool := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &pool))
	require.Equal(t, admin.pubkey, pool["admin"])
	require.Equal(t, true, pool["paused"])
}
