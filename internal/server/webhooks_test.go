package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogdomain "github.com/clubworks/sponsorpay/internal/catalog/domain"
	"github.com/clubworks/sponsorpay/internal/config"
	connectdomain "github.com/clubworks/sponsorpay/internal/connect/domain"
	stripedomain "github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	"github.com/clubworks/sponsorpay/internal/server"
	tenantdomain "github.com/clubworks/sponsorpay/internal/tenant/domain"
	webhookdomain "github.com/clubworks/sponsorpay/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

type stubWebhookService struct {
	ingestCalls int
	lastSig     string
	result      webhookdomain.Result
}

func (s *stubWebhookService) Ingest(ctx context.Context, payload []byte, sigHeader string) webhookdomain.Result {
	s.ingestCalls++
	s.lastSig = sigHeader
	return s.result
}

func (s *stubWebhookService) Reconcile(ctx context.Context, event stripeapi.Event) webhookdomain.Result {
	return s.result
}

type stubConnectService struct {
	paymentResp connectdomain.CreatePaymentResponse
	paymentErr  error
}

func (s *stubConnectService) CreateAccount(ctx context.Context, tenantID string) (stripedomain.Account, error) {
	return stripedomain.Account{ID: "acct_1"}, nil
}

func (s *stubConnectService) OnboardingLink(ctx context.Context, accountID string) (stripedomain.AccountLink, error) {
	return stripedomain.AccountLink{URL: "https://connect.stripe.com/setup/s/abc"}, nil
}

func (s *stubConnectService) CreateSponsorshipPayment(ctx context.Context, req connectdomain.CreatePaymentRequest) (connectdomain.CreatePaymentResponse, error) {
	return s.paymentResp, s.paymentErr
}

type stubCatalogService struct {
	products []catalogdomain.CatalogProduct
	err      error
}

func (s *stubCatalogService) Sync(ctx context.Context) ([]catalogdomain.CatalogProduct, error) {
	return s.products, s.err
}

func newTestServer(t *testing.T, webhookSvc webhookdomain.Service, connectSvc connectdomain.Service, catalogSvc catalogdomain.Service) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := server.NewEngine(zap.NewNop())
	srv := server.NewServer(server.Params{
		Engine:     engine,
		Cfg:        config.Config{Port: "8080"},
		Log:        zap.NewNop(),
		ConnectSvc: connectSvc,
		WebhookSvc: webhookSvc,
		CatalogSvc: catalogSvc,
	})
	srv.RegisterRoutes()
	return engine
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	webhookSvc := &stubWebhookService{result: webhookdomain.Result{Success: true}}
	engine := newTestServer(t, webhookSvc, &stubConnectService{}, &stubCatalogService{})

	for _, path := range []string{"/webhook", "/api/webhooks/stripe/connect"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
		engine.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Missing stripe-signature header", body["error"])
	}
	require.Zero(t, webhookSvc.ingestCalls)
}

func TestWebhookAcknowledgesProcessedEvent(t *testing.T) {
	webhookSvc := &stubWebhookService{result: webhookdomain.Result{Success: true}}
	engine := newTestServer(t, webhookSvc, &stubConnectService{}, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"received":true}`, rec.Body.String())
	require.Equal(t, 1, webhookSvc.ingestCalls)
	require.Equal(t, "t=1,v1=abc", webhookSvc.lastSig)
}

func TestWebhookReturns400OnFailedReconciliation(t *testing.T) {
	webhookSvc := &stubWebhookService{result: webhookdomain.Result{Success: false, Error: "invalid_signature"}}
	engine := newTestServer(t, webhookSvc, &stubConnectService{}, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "invalid_signature", body["error"])
}

func TestWebhookRejectsWrongMethod(t *testing.T) {
	engine := newTestServer(t, &stubWebhookService{}, &stubConnectService{}, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestServer(t, &stubWebhookService{}, &stubConnectService{}, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSponsorshipPaymentEndpoint(t *testing.T) {
	connectSvc := &stubConnectService{paymentResp: connectdomain.CreatePaymentResponse{
		ClientSecret: "pi_1_secret_x",
		Success:      true,
	}}
	engine := newTestServer(t, &stubWebhookService{}, connectSvc, &stubCatalogService{})

	body := `{"amount":19.99,"tenant_id":"tenant_1","sponsor_email":"sponsor@example.com"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sponsorships/sp_1/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"client_secret":"pi_1_secret_x","success":true}`, rec.Body.String())
}

func TestCreateSponsorshipPaymentEndpointMapsNotConnected(t *testing.T) {
	connectSvc := &stubConnectService{paymentErr: tenantdomain.ErrAccountNotConnected}
	engine := newTestServer(t, &stubWebhookService{}, connectSvc, &stubCatalogService{})

	body := `{"amount":19.99,"tenant_id":"tenant_1"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sponsorships/sp_1/payments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncProductsEndpoint(t *testing.T) {
	catalogSvc := &stubCatalogService{products: []catalogdomain.CatalogProduct{{ID: "prod_1", Name: "Club Pro"}}}
	engine := newTestServer(t, &stubWebhookService{}, &stubConnectService{}, catalogSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/sync-products", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []catalogdomain.CatalogProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	require.Equal(t, "prod_1", body.Products[0].ID)
}

func TestSyncProductsEndpointError(t *testing.T) {
	catalogSvc := &stubCatalogService{err: errors.New("stripe_unavailable")}
	engine := newTestServer(t, &stubWebhookService{}, &stubConnectService{}, catalogSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/sync-products", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
