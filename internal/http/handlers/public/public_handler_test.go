package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/polaroid-next/internal/config"
	"github.com/polaroid-next/internal/constants"
	handlershared "github.com/polaroid-next/internal/http/handlers/shared"
	"github.com/polaroid-next/internal/http/response"
	"github.com/polaroid-next/internal/models"
	"github.com/polaroid-next/internal/provider"
	"github.com/polaroid-next/internal/repository"
	"github.com/polaroid-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type publicEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.Tables()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	printSizeRepo := repository.NewPrintSizeRepository(db)

	h := &Handler{Container: &provider.Container{
		UserRepo:         userRepo,
		OrderRepo:        orderRepo,
		PrintSizeRepo:    printSizeRepo,
		AuthService:      service.NewAuthService(config.JWTConfig{SecretKey: "public-handler-test-secret", ExpireHours: 1}, config.PasswordPolicyConfig{MinLength: 8}, userRepo),
		CaptchaService:   service.NewCaptchaService(config.CaptchaConfig{}),
		UserService:      service.NewUserService(userRepo),
		PrintSizeService: service.NewPrintSizeService(printSizeRepo),
		OrderService: service.NewOrderService(orderRepo, printSizeRepo, userRepo, nil, config.OrderConfig{
			OrderNoMaxAttempts:   3,
			DefaultCustomerState: constants.DefaultCustomerState,
		}),
		PaymentService: service.NewPaymentService(orderRepo, nil, config.PaymentConfig{Gateway: "toyyibpay", FeePercentage: 2.5}),
	}}

	for _, seed := range []struct {
		id     string
		price  string
		active bool
	}{{"4R", "1.50", true}, {"A3", "25.00", false}} {
		size := models.PrintSize{
			ID:          seed.id,
			Name:        strings.ToLower(seed.id),
			DisplayName: seed.id,
			Price:       models.NewMoneyFromDecimal(decimal.RequireFromString(seed.price)),
			IsActive:    seed.active,
		}
		if err := db.Create(&size).Error; err != nil {
			t.Fatalf("seed print size failed: %v", err)
		}
	}
	return h, db
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string, params gin.Params, userID uint) (*httptest.ResponseRecorder, publicEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	if userID > 0 {
		c.Set(handlershared.ContextUserIDKey, userID)
	}
	handler(c)

	var resp publicEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return w, resp
}

func performWebhook(t *testing.T, h *Handler, form url.Values) (int, map[string]string) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/webhooks/toyyibpay", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ToyyibPayWebhook(c)

	body := map[string]string{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode webhook response failed: %v body=%s", err, w.Body.String())
	}
	return w.Code, body
}

func createPublicOrder(t *testing.T, h *Handler, userID uint) *models.Order {
	t.Helper()
	_, resp := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders",
		`{"customer_name":"Siti","customer_email":"siti@example.com","customer_state":"J","items":[{"print_size_id":"4R","quantity":3}]}`,
		nil, userID)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("create order failed: %d (%s)", resp.StatusCode, resp.Msg)
	}
	var order models.Order
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	return &order
}

func TestCreateOrderGuest(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	order := createPublicOrder(t, h, 0)

	if order.Total.String() != "4.50" {
		t.Fatalf("expected total 4.50, got %s", order.Total.String())
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unexpected initial statuses: %s/%s", order.Status, order.PaymentStatus)
	}
	if order.UserID != nil {
		t.Fatalf("guest order should not have an owner, got %v", *order.UserID)
	}
}

func TestCreateOrderRejectsInactiveSize(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	_, resp := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders",
		`{"customer_name":"Siti","customer_email":"siti@example.com","items":[{"print_size_id":"A3","quantity":1}]}`,
		nil, 0)
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
}

func TestTrackOrder(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	order := createPublicOrder(t, h, 0)

	_, resp := performJSON(t, h.TrackOrder, http.MethodGet, "/", "", gin.Params{{Key: "order_no", Value: strings.ToLower(order.OrderNo)}}, 0)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("track order failed: %d", resp.StatusCode)
	}
	var view map[string]interface{}
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode tracked order failed: %v", err)
	}
	if view["order_no"] != order.OrderNo {
		t.Fatalf("unexpected order_no: %v", view["order_no"])
	}
	if _, leaked := view["customer_email"]; leaked {
		t.Fatalf("tracking view should not expose customer email")
	}

	_, resp = performJSON(t, h.TrackOrder, http.MethodGet, "/", "", gin.Params{{Key: "order_no", Value: "PG-NOPE"}}, 0)
	if resp.StatusCode != response.CodeNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestListPrintSizesHidesInactive(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	_, resp := performJSON(t, h.ListPrintSizes, http.MethodGet, "/", "", nil, 0)
	var sizes []models.PrintSize
	if err := json.Unmarshal(resp.Data, &sizes); err != nil {
		t.Fatalf("decode sizes failed: %v", err)
	}
	if len(sizes) != 1 || sizes[0].ID != "4R" {
		t.Fatalf("expected only active size, got %+v", sizes)
	}

	_, resp = performJSON(t, h.GetPrintSize, http.MethodGet, "/", "", gin.Params{{Key: "id", Value: "A3"}}, 0)
	if resp.StatusCode != response.CodeNotFound {
		t.Fatalf("expected inactive size to be hidden, got %d", resp.StatusCode)
	}
}

func TestRegisterLoginAndMyOrders(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	_, resp := performJSON(t, h.UserRegister, http.MethodPost, "/", `{"email":"Buyer@Example.com","password":"Sunshine123","name":"Buyer"}`, nil, 0)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("register failed: %d (%s)", resp.StatusCode, resp.Msg)
	}
	_, resp = performJSON(t, h.UserRegister, http.MethodPost, "/", `{"email":"buyer@example.com","password":"Sunshine123"}`, nil, 0)
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected duplicate email to be rejected, got %d", resp.StatusCode)
	}

	_, resp = performJSON(t, h.UserLogin, http.MethodPost, "/", `{"email":"buyer@example.com","password":"wrong-pass"}`, nil, 0)
	if resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected invalid login, got %d", resp.StatusCode)
	}
	_, resp = performJSON(t, h.UserLogin, http.MethodPost, "/", `{"email":"buyer@example.com","password":"Sunshine123"}`, nil, 0)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("login failed: %d (%s)", resp.StatusCode, resp.Msg)
	}
	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("decode login payload failed: %v", err)
	}
	if payload.Token == "" || payload.User.Role != constants.RoleCustomer {
		t.Fatalf("unexpected login payload: %+v", payload)
	}

	createPublicOrder(t, h, payload.User.ID)
	createPublicOrder(t, h, 0)

	_, resp = performJSON(t, h.ListMyOrders, http.MethodGet, "/api/v1/me/orders", "", nil, payload.User.ID)
	var orders []models.Order
	if err := json.Unmarshal(resp.Data, &orders); err != nil {
		t.Fatalf("decode my orders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one owned order, got %d", len(orders))
	}
}

func TestToyyibPayWebhookOutcomes(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	order := createPublicOrder(t, h, 0)

	code, body := performWebhook(t, h, url.Values{})
	if code != http.StatusBadRequest || body["status"] != "error" || body["message"] != "Missing refno" {
		t.Fatalf("unexpected missing refno reply: %d %+v", code, body)
	}

	code, body = performWebhook(t, h, url.Values{"refno": {order.OrderNo}, "status": {"9"}})
	if code != http.StatusOK || body["status"] != "unknown" {
		t.Fatalf("unexpected unknown status reply: %d %+v", code, body)
	}

	code, body = performWebhook(t, h, url.Values{"refno": {"missing-ref"}, "status": {"1"}})
	if code != http.StatusOK || body["status"] != "not_found" {
		t.Fatalf("unexpected not found reply: %d %+v", code, body)
	}

	for i := 0; i < 2; i++ {
		code, body = performWebhook(t, h, url.Values{"refno": {order.OrderNo}, "status": {"1"}, "amount": {"4.50"}})
		if code != http.StatusOK || body["status"] != "success" || body["message"] != "Payment processed" {
			t.Fatalf("unexpected paid reply on delivery %d: %d %+v", i+1, code, body)
		}
	}

	var paid models.Order
	if err := db.First(&paid, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if paid.PaymentStatus != constants.PaymentStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected order to be paid, got %s", paid.PaymentStatus)
	}
	var history int64
	if err := db.Model(&models.OrderStatusHistory{}).Where("order_id = ? AND message = ?", order.ID, constants.HistoryMessagePaymentReceived).Count(&history).Error; err != nil {
		t.Fatalf("count history failed: %v", err)
	}
	if history != 1 {
		t.Fatalf("expected exactly one payment history entry, got %d", history)
	}

	code, body = performWebhook(t, h, url.Values{"refno": {order.OrderNo}, "status": {"2"}})
	if code != http.StatusOK || body["status"] != "failed" {
		t.Fatalf("unexpected failed reply: %d %+v", code, body)
	}
	if err := db.First(&paid, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if paid.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("paid order regressed to %s", paid.PaymentStatus)
	}
}

func TestToyyibPayWebhookRecoversPanic(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	h.PaymentService = nil

	code, body := performWebhook(t, h, url.Values{"refno": {"PG-ANY"}, "status": {"1"}})
	if code != http.StatusInternalServerError || body["status"] != "error" {
		t.Fatalf("expected recovered panic reply, got %d %+v", code, body)
	}
}
