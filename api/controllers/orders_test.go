package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casatienda/storefront-backend/api/middleware"
	"github.com/casatienda/storefront-backend/internal/orders"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
)

type stubOrderService struct {
	submitted *orders.SubmitOrderInput
	submitErr error
	result    *orders.SubmitOrderResult
	order     *orders.OrderDTO
	orderErr  error
	listed    []orders.OrderDTO
}

func (s *stubOrderService) SubmitOrder(ctx context.Context, input orders.SubmitOrderInput) (*orders.SubmitOrderResult, error) {
	s.submitted = &input
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.result, nil
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*orders.OrderDTO, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return s.order, nil
}

func (s *stubOrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	return s.listed, nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), userID.String())
	return req.WithContext(ctx)
}

func TestSubmitOrderReturnsCreated(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{
		result: &orders.SubmitOrderResult{
			OrderID:     orderID,
			TotalAmount: decimal.RequireFromString("55.40"),
		},
	}

	productID := uuid.New()
	body := `{"customer_details":{"name":"Maria","email":"maria@example.com","phone":"+52 555 000 1111"},"cart_items":[{"product_id":"` + productID.String() + `"}]}`
	userID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/orders", body, userID)
	rec := httptest.NewRecorder()

	SubmitOrder(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.submitted == nil {
		t.Fatal("service was not called")
	}
	if svc.submitted.UserID != userID {
		t.Fatal("caller identity not forwarded")
	}
	if len(svc.submitted.Items) != 1 || svc.submitted.Items[0].ProductID != productID {
		t.Fatal("cart items not forwarded")
	}

	var envelope struct {
		Data orders.SubmitOrderResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.OrderID != orderID {
		t.Fatal("response does not carry the committed order id")
	}
}

func TestSubmitOrderRejectsMissingIdentity(t *testing.T) {
	svc := &stubOrderService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	SubmitOrder(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if svc.submitted != nil {
		t.Fatal("service should not be called without identity")
	}
}

func TestSubmitOrderRejectsMalformedBody(t *testing.T) {
	svc := &stubOrderService{}
	req := authedRequest(http.MethodPost, "/api/v1/orders", `{"cart_items":[]}`, uuid.New())
	rec := httptest.NewRecorder()

	SubmitOrder(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestSubmitOrderMapsUnknownProductTo404(t *testing.T) {
	missing := uuid.New()
	svc := &stubOrderService{
		submitErr: pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", missing),
	}
	body := `{"customer_details":{"name":"Maria","email":"maria@example.com","phone":"+52 555 000 1111"},"cart_items":[{"product_id":"` + missing.String() + `"}]}`
	req := authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.New())
	rec := httptest.NewRecorder()

	SubmitOrder(svc, nil)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), missing.String()) {
		t.Fatalf("body %q does not name the missing product", rec.Body.String())
	}
}

func TestOrderDetailParsesPathParam(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrderService{
		order: &orders.OrderDTO{ID: orderID},
	}

	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", uuid.New())
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	OrderDetail(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	badReq := authedRequest(http.MethodGet, "/api/v1/orders/nope", "", uuid.New())
	badCtx := chi.NewRouteContext()
	badCtx.URLParams.Add("orderId", "nope")
	badReq = badReq.WithContext(context.WithValue(badReq.Context(), chi.RouteCtxKey, badCtx))
	rec = httptest.NewRecorder()

	OrderDetail(svc, nil)(rec, badReq)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
