package httpadapter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
	"market-ads/internal/core/pricing"
)

// stubUseCase implements port.CampaignUseCase with overridable behaviour for
// the handlers under test. Quoting always goes through a real pricing engine
// because it is pure anyway.
type stubUseCase struct {
	pricer   *pricing.Engine
	createFn func(port.CreateCampaignReq) (*domain.Campaign, error)
	getErr   error
	opErr    error
}

func (s *stubUseCase) Quote(adType domain.AdType, months int) (domain.PriceBreakdown, error) {
	return s.pricer.Quote(adType, months)
}

func (s *stubUseCase) AvailableSlots(context.Context, domain.AdType, string) ([]int, error) {
	return []int{1, 2, 3, 4, 5, 6}, s.opErr
}

func (s *stubUseCase) Create(_ context.Context, req port.CreateCampaignReq) (*domain.Campaign, error) {
	return s.createFn(req)
}

func (s *stubUseCase) Get(context.Context, string) (*domain.Campaign, []domain.Renewal, error) {
	if s.getErr != nil {
		return nil, nil, s.getErr
	}
	return &domain.Campaign{ID: "c1", Status: domain.StatusActive}, nil, nil
}

func (s *stubUseCase) OnPaymentCompleted(context.Context, string, string, string) error {
	return s.opErr
}
func (s *stubUseCase) Approve(context.Context, string, string) error { return s.opErr }
func (s *stubUseCase) Reject(context.Context, string, string, string) error {
	return s.opErr
}
func (s *stubUseCase) Cancel(context.Context, string, string) error { return s.opErr }
func (s *stubUseCase) Renew(context.Context, string, string, int, string) (*domain.Campaign, error) {
	return &domain.Campaign{ID: "c1", Status: domain.StatusActive}, s.opErr
}
func (s *stubUseCase) SetAutoRenew(context.Context, string, string, bool) error { return s.opErr }
func (s *stubUseCase) UpdateContent(context.Context, port.UpdateContentReq) error {
	return s.opErr
}
func (s *stubUseCase) RecordView(context.Context, string) error  { return s.opErr }
func (s *stubUseCase) RecordClick(context.Context, string) error { return s.opErr }

func newTestHandler(stub *stubUseCase) *Handler {
	if stub.pricer == nil {
		stub.pricer = pricing.New(pricing.Default())
	}
	if stub.createFn == nil {
		stub.createFn = func(req port.CreateCampaignReq) (*domain.Campaign, error) {
			return &domain.Campaign{
				ID:      "c1",
				OwnerID: req.OwnerID,
				AdType:  req.AdType,
				Status:  domain.StatusAwaitingPayment,
			}, nil
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(stub, logger)
}

func TestQuoteEndpoint(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/quote?ad_type=leaderboard&duration=12", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"base_price":60000,"discount_percent":20,"total_price":576000}`, rec.Body.String())
}

func TestQuoteEndpointRejectsUnknownType(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/quote?ad_type=popunder&duration=1", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEndpoint(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	body := `{"ad_type":"right_sidebar_top","slot_number":3,"duration_months":3,
        "title":"Spring sale","media_url":"https://media.example.com/b.png",
        "link_target":"https://shop.example.com/spring"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(body))
	req.Header.Set("X-Owner-ID", "shop-1")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"awaiting_payment"`)
}

func TestCreateEndpointRequiresOwner(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEndpointValidatesBody(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	// missing required title and link_target
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns",
		strings.NewReader(`{"ad_type":"leaderboard","duration_months":1}`))
	req.Header.Set("X-Owner-ID", "shop-1")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", port.ErrCampaignNotFound, http.StatusNotFound},
		{"unauthorized", port.ErrUnauthorized, http.StatusForbidden},
		{"invalid transition", port.ErrInvalidTransition, http.StatusConflict},
		{"slot unavailable", port.ErrSlotUnavailable, http.StatusConflict},
		{"payment not completed", port.ErrPaymentNotCompleted, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubUseCase{opErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/c1/approve", nil)
			req.Header.Set("X-Admin-ID", "admin-1")
			rec := httptest.NewRecorder()
			h.Router().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTrackingEndpoints(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	for _, path := range []string{"/api/v1/campaigns/c1/view", "/api/v1/campaigns/c1/click"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}
}

func TestGetEndpointNotFound(t *testing.T) {
	h := newTestHandler(&stubUseCase{getErr: port.ErrCampaignNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/missing", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
