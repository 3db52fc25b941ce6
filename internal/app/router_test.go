package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dchanga/internal/handler"
	"dchanga/internal/ledger"
	"dchanga/internal/repository/memory"
	internalRedis "dchanga/internal/redis"
	"dchanga/internal/service"
)

type testServer struct {
	router  *gin.Engine
	network *ledger.SimulatedConnector
}

func newTestServer(t *testing.T, operatorBalance int64, redisClient *redis.Client) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	campaigns := memory.NewCampaignRepository(memory.SeedCampaigns()...)
	contributions := memory.NewContributionRepository()
	transactions := memory.NewTransactionRepository()
	network := ledger.NewSimulatedConnector("0.0.1001", decimal.NewFromInt(operatorBalance))

	var cache internalRedis.CampaignCacheInterface
	var locker service.AccountLocker
	if redisClient != nil {
		cache = internalRedis.NewCacheStore(redisClient, 0)
		locker = internalRedis.NewLockStore(redisClient)
	}

	campaignService := service.NewCampaignService(campaigns, cache)
	ledgerService := service.NewLedgerService(network, locker)
	transactionService := service.NewTransactionService(transactions)
	contributionService := service.NewContributionService(service.ContributionServiceConfig{
		Campaigns:        campaignService,
		ContributionRepo: contributions,
		TransactionRepo:  transactions,
		Ledger:           ledgerService,
		Treasury:         service.NewStaticTreasuryResolver(map[string]string{"1": "0.0.5001"}, "0.0.5000"),
		ExchangeRate:     decimal.RequireFromString("0.5"),
	})

	router := NewRouter(RouterDeps{
		CampaignHandler:     handler.NewCampaignHandler(campaignService, transactionService),
		ContributionHandler: handler.NewContributionHandler(contributionService),
		LedgerHandler:       handler.NewLedgerHandler(ledgerService),
		TransactionHandler:  handler.NewTransactionHandler(transactionService),
		VerificationHandler: handler.NewVerificationHandler(service.NewVerificationService()),
		RedisClient:         redisClient,
	})
	return &testServer{router: router, network: network}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Campaigns(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodGet, "/v1/campaigns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]handler.CampaignResponse](t, w)
	assert.Len(t, list, 3)

	w = s.do(t, http.MethodGet, "/v1/campaigns?id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	one := decode[handler.CampaignResponse](t, w)
	assert.Equal(t, "Community Water Well - Nairobi", one.Title)
	assert.Equal(t, "2025-01-15", one.CreatedDate)

	w = s.do(t, http.MethodGet, "/v1/campaigns/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/v1/campaigns", map[string]any{
		"title":       "Clinic Solar Power",
		"description": "Keep the lights on",
		"goal":        20000,
		"location":    "Mombasa, Kenya",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[handler.CampaignResponse](t, w)
	assert.Equal(t, "pending", created.Status)
	assert.True(t, created.Raised.IsZero())
	assert.Equal(t, 0, created.Contributors)

	w = s.do(t, http.MethodPost, "/v1/campaigns", map[string]any{"title": "incomplete"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_LedgerContribution(t *testing.T) {
	s := newTestServer(t, 20000, nil)

	w := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", map[string]any{
		"amount":           5000,
		"contributorEmail": "amina@example.com",
		"method":           "ledger-wallet",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[handler.ContributeResponse](t, w)
	assert.Equal(t, "succeeded", res.Contribution.State)
	assert.NotEmpty(t, res.Contribution.HederaTransactionID)
	assert.Equal(t, "10000", s.network.BalanceOf("0.0.5001").String())

	w = s.do(t, http.MethodGet, "/v1/transactions/"+res.Contribution.TransactionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	record := decode[handler.TransactionResponse](t, w)
	assert.Equal(t, "confirmed", record.Status)

	w = s.do(t, http.MethodGet, "/v1/campaigns/1/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[handler.CampaignTransactionsResponse](t, w)
	assert.Equal(t, 1, listed.Count)

	w = s.do(t, http.MethodGet, "/v1/contributions/"+res.Contribution.ID+"/receipt?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), res.Contribution.TransactionID)
}

func TestRouter_LedgerContribution_InsufficientBalance(t *testing.T) {
	s := newTestServer(t, 5, nil)

	w := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", map[string]any{
		"amount":           5000,
		"contributorEmail": "amina@example.com",
		"method":           "ledger-wallet",
	})
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	res := decode[handler.ContributeResponse](t, w)
	assert.Equal(t, "failed", res.Contribution.State)
	assert.Equal(t, "10000", res.Needed)
	assert.Equal(t, "5", res.Available)
	assert.Contains(t, res.Error, "Insufficient balance")
	assert.Equal(t, int32(0), s.network.TransferCount)
}

func TestRouter_QRContribution(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodPost, "/v1/campaigns/2/contribute", map[string]any{
		"amount":           "300",
		"contributorEmail": "juma@example.com",
		"method":           "mobile-money",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	res := decode[handler.ContributeResponse](t, w)
	assert.Equal(t, "qr-pending", res.Contribution.State)
	require.NotEmpty(t, res.QRData)

	w = s.do(t, http.MethodGet, "/v1/contributions/"+res.Contribution.ID+"/qr.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(t, http.MethodPost, "/v1/qr/verify", map[string]any{"qrData": res.QRData})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	verified := decode[handler.VerifyQRResponse](t, w)
	assert.Equal(t, res.Contribution.TransactionID, verified.TransactionID)

	w = s.do(t, http.MethodPost, "/v1/contributions/"+res.Contribution.ID+"/confirm", map[string]any{"scanned": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/v1/contributions/"+res.Contribution.ID+"/confirm", map[string]any{"scanned": "MPESA-VERIFIED"})
	require.Equal(t, http.StatusOK, w.Code)
	confirmed := decode[handler.ContributionResponse](t, w)
	assert.Equal(t, "succeeded", confirmed.State)

	w = s.do(t, http.MethodGet, "/v1/contributions/"+res.Contribution.ID+"/qr.png", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/v1/contributions?campaignId=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]handler.ContributionResponse](t, w), 1)
}

func TestRouter_ContributeValidation(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", map[string]any{
		"amount":           0,
		"contributorEmail": "a@b.c",
		"method":           "card",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/v1/campaigns/404/contribute", map[string]any{
		"amount":           1,
		"contributorEmail": "a@b.c",
		"method":           "card",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CreateContribution(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodPost, "/v1/contributions", map[string]any{
		"campaignId":       "1",
		"amount":           25,
		"contributorEmail": "a@b.c",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[handler.ContributionResponse](t, w)
	assert.Equal(t, "pending", created.Status)
	assert.Contains(t, created.TransactionID, "TX-")

	w = s.do(t, http.MethodPost, "/v1/contributions", map[string]any{"campaignId": "1", "amount": -1, "contributorEmail": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Ledger(t *testing.T) {
	s := newTestServer(t, 100, nil)

	w := s.do(t, http.MethodGet, "/v1/ledger/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	balance := decode[handler.BalanceResponse](t, w)
	assert.Equal(t, "0.0.1001", balance.AccountID)
	assert.Equal(t, "100", balance.Balance.String())

	w = s.do(t, http.MethodPost, "/v1/ledger/payments", map[string]any{
		"transactionId":      "TX-1",
		"recipientAccountId": "0.0.42",
		"amount":             30,
	})
	require.Equal(t, http.StatusOK, w.Code)
	payment := decode[handler.SendPaymentResponse](t, w)
	assert.True(t, payment.Success)
	assert.Equal(t, "confirmed", payment.Status)

	w = s.do(t, http.MethodPost, "/v1/ledger/payments", map[string]any{"transactionId": "TX-2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Ledger_NotConfigured(t *testing.T) {
	s := newTestServer(t, 100, nil)
	s.network.ConnectError = ledger.ErrNotConfigured

	w := s.do(t, http.MethodGet, "/v1/ledger/balance", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestRouter_Transactions(t *testing.T) {
	s := newTestServer(t, 0, nil)

	record := map[string]any{
		"transactionId": "TX-9",
		"campaignId":    "3",
		"amount":        40,
		"contributor":   "a@b.c",
	}
	w := s.do(t, http.MethodPost, "/v1/transactions", record)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pending", decode[handler.TransactionResponse](t, w).Status)

	w = s.do(t, http.MethodPost, "/v1/transactions", record)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/v1/transactions?campaignId=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[handler.CampaignTransactionsResponse](t, w).Count)

	w = s.do(t, http.MethodGet, "/v1/transactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/v1/transactions/TX-unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/v1/transactions/verify", map[string]any{"transactionId": "TRANS-1", "campaignId": "3"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[handler.VerifyTransactionResponse](t, w).Verified)

	w = s.do(t, http.MethodPost, "/v1/transactions/verify", map[string]any{"transactionId": "XYZ", "campaignId": "3"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_IdempotentContribution(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newTestServer(t, 20000, client)

	body := map[string]any{
		"amount":           100,
		"contributorEmail": "amina@example.com",
		"method":           "ledger-wallet",
	}
	first := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", body, "Idempotency-Key", "retry-1")
	second := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", body, "Idempotency-Key", "retry-1")

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), s.network.TransferCount)
	assert.Equal(t, "200", s.network.BalanceOf("0.0.5001").String())
}

func TestRouter_IdempotencyKeyReusedAcrossCampaigns(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newTestServer(t, 0, client)

	first := s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", map[string]any{
		"amount":           "10",
		"contributorEmail": "amina@example.com",
		"method":           "mobile-money",
	}, "Idempotency-Key", "k1")
	second := s.do(t, http.MethodPost, "/v1/campaigns/2/contribute", map[string]any{
		"amount":           "99",
		"contributorEmail": "amina@example.com",
		"method":           "card",
	}, "Idempotency-Key", "k1")

	require.Equal(t, http.StatusAccepted, first.Code, first.Body.String())
	require.Equal(t, http.StatusAccepted, second.Code, second.Body.String())
	assert.Empty(t, second.Header().Get("Idempotent-Replay"))

	res := decode[handler.ContributeResponse](t, second)
	assert.Equal(t, "2", res.Contribution.CampaignID)
	assert.Equal(t, "99", res.Contribution.Amount.String())

	w := s.do(t, http.MethodGet, "/v1/contributions?campaignId=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]handler.ContributionResponse](t, w), 1)

	w = s.do(t, http.MethodPost, "/v1/campaigns/1/contribute", map[string]any{
		"amount":           "11",
		"contributorEmail": "amina@example.com",
		"method":           "mobile-money",
	}, "Idempotency-Key", "k1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_ConfirmByTransactionID(t *testing.T) {
	s := newTestServer(t, 0, nil)

	w := s.do(t, http.MethodPost, "/v1/campaigns/3/contribute", map[string]any{
		"amount":           "50",
		"contributorEmail": "wanjiru@example.com",
		"method":           "card",
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	res := decode[handler.ContributeResponse](t, w)

	w = s.do(t, http.MethodPost, "/v1/transactions/TX-unknown/confirm", map[string]any{"scanned": "VERIFIED"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/v1/transactions/"+res.Contribution.TransactionID+"/confirm", map[string]any{"scanned": "CARD-VERIFIED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	confirmed := decode[handler.ContributionResponse](t, w)
	assert.Equal(t, res.Contribution.ID, confirmed.ID)
	assert.Equal(t, "succeeded", confirmed.State)

	w = s.do(t, http.MethodGet, "/v1/transactions/"+res.Contribution.TransactionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode[handler.TransactionResponse](t, w).Status)
}
