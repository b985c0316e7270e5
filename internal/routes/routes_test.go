package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartcare-backend/internal/chat"
	"smartcare-backend/internal/config"
	"smartcare-backend/internal/handlers"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/notify"
	"smartcare-backend/internal/services"
	"smartcare-backend/internal/testutil"
	"smartcare-backend/internal/worktimer"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	router *gin.Engine
	clock  *worktimer.Clock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.DB = testutil.NewDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := chat.NewHub()
	go hub.Run(ctx)
	clock := worktimer.New(time.Second)

	adminHash, err := utils.HashPassword("admin123")
	require.NoError(t, err)

	orders := services.NewOrderService(config.DB, clock, 15, 100)
	topups := services.NewTopupService(config.DB, nil, notify.Nop{}, notify.Nop{}, 50000)

	r := gin.New()
	SetupRoutes(r, Deps{
		Orders:            handlers.NewOrderHandler(orders, 0),
		Chat:              handlers.NewChatHandler(chat.NewService(config.DB, hub, nil, 50), hub, []string{"*"}),
		Topups:            handlers.NewTopupHandler(topups),
		Wallet:            handlers.NewWalletHandler(services.NewEarningsService(config.DB)),
		Payments:          handlers.NewPaymentHandler(topups, ""),
		AdminEmail:        "admin@smartcare.id",
		AdminPasswordHash: adminHash,
	})
	return &testApp{router: r, clock: clock}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func tokenFrom(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestPing(t *testing.T) {
	app := newTestApp(t)
	w, env := app.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestPartnerJourney(t *testing.T) {
	app := newTestApp(t)

	// Daftar: belum bisa login sebelum diverifikasi
	w, _ := app.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"owner_name": "Budi", "business_name": "Klinik Sehat", "business_type": "Klinik",
		"phone_number": "0812", "email": "budi@test.id", "address": "Jl. Mawar",
		"city": "Bandung", "province": "Jawa Barat", "password": "rahasia1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	login := gin.H{"email": "budi@test.id", "password": "rahasia1"}
	w, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", login)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Akun Anda belum diverifikasi oleh admin", env.Message)

	// Admin memverifikasi
	w, env = app.do(t, http.MethodPost, "/api/v1/auth/admin/login", "", gin.H{"email": "admin@smartcare.id", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := tokenFrom(t, env)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/partners/1/verify", adminToken, gin.H{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(t, http.MethodPost, "/api/v1/auth/login", "", login)
	require.Equal(t, http.StatusOK, w.Code)
	partnerToken := tokenFrom(t, env)

	// Mitra tidak boleh ke endpoint admin
	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/stats", partnerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin membuat order 100.000
	w, env = app.do(t, http.MethodPost, "/api/v1/admin/orders", adminToken, gin.H{
		"service_name": "SmartClean", "price_per_hour": 100000, "customer_name": "Siti",
		"address": "Jl. Melati", "scheduled_date": "2026-10-20", "scheduled_time": "08:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, strings.HasPrefix(order.OrderNumber, "SC-"))
	orderPath := fmt.Sprintf("/api/v1/partner/orders/%d", order.ID)

	// Saldo 0: ditolak, kurang 15.000
	w, env = app.do(t, http.MethodPost, orderPath+"/accept", partnerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Rp 15.000")

	// Top up 50.000 lalu disetujui admin
	w, _ = app.do(t, http.MethodPost, "/api/v1/partner/topups", partnerToken, gin.H{"amount": 40000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, env = app.do(t, http.MethodPost, "/api/v1/partner/topups", partnerToken, gin.H{"amount": 50000})
	require.Equal(t, http.StatusCreated, w.Code)
	var topup services.TopupResult
	require.NoError(t, json.Unmarshal(env.Data, &topup))

	w, _ = app.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/topups/%d/resolve", topup.Request.ID), adminToken, gin.H{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code)

	// Terima -> mulai -> selesai
	w, _ = app.do(t, http.MethodPost, orderPath+"/accept", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodPost, orderPath+"/start", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for i := 0; i < 65; i++ {
		app.clock.Tick()
	}

	// Admin memantau timer yang berjalan
	w, env = app.do(t, http.MethodGet, "/api/v1/admin/timers", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timers []worktimer.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &timers))
	require.Len(t, timers, 1)
	assert.Equal(t, order.ID, timers[0].OrderID)
	assert.Equal(t, "00:01:05", timers[0].Display)

	w, env = app.do(t, http.MethodPost, orderPath+"/finish", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.Message, "Rp 15.000")

	var finish struct {
		Result services.FinishResult `json:"result"`
		Feeds  services.Feeds        `json:"feeds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &finish))
	assert.Equal(t, 35000.0, finish.Result.BalanceAfter)
	require.NotNil(t, finish.Result.Timer)
	assert.Equal(t, "00:01:05", finish.Result.Timer.Display)
	require.Len(t, finish.Feeds.MyJobs, 1)
	assert.True(t, finish.Feeds.MyJobs[0].InvoiceAvailable)

	// Invoice
	w, _ = app.do(t, http.MethodGet, orderPath+"/invoice", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice_"+order.OrderNumber+".txt")
	assert.Contains(t, w.Body.String(), order.OrderNumber)

	w, _ = app.do(t, http.MethodGet, orderPath+"/invoice/qr", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w, _ = app.do(t, http.MethodPost, orderPath+"/invoice/send", partnerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Ledger: +50.000 top up, -15.000 komisi
	w, env = app.do(t, http.MethodGet, "/api/v1/partner/wallet/transactions", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger []models.WalletTransaction
	require.NoError(t, json.Unmarshal(env.Data, &ledger))
	assert.Len(t, ledger, 2)

	w, _ = app.do(t, http.MethodGet, "/api/v1/partner/earnings/export", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotZero(t, w.Body.Len())

	w, env = app.do(t, http.MethodGet, "/api/v1/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]float64
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 15000.0, stats["total_commission"])
}

func TestChatRoutes(t *testing.T) {
	app := newTestApp(t)
	a := testutil.CreatePartner(t, config.DB, "a@test.id", 0)
	testutil.CreatePartner(t, config.DB, "b@test.id", 0)

	tokenA, err := utils.GenerateToken(a.ID, utils.RolePartner)
	require.NoError(t, err)
	adminToken, err := utils.GenerateToken(0, utils.RoleAdmin)
	require.NoError(t, err)

	w, env := app.do(t, http.MethodPost, "/api/v1/chat/messages", tokenA, gin.H{"content": "  halo admin  "})
	require.Equal(t, http.StatusCreated, w.Code)
	var msg models.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "halo admin", msg.Content)
	assert.Equal(t, chat.RoomID(a.ID), msg.RoomID)

	w, _ = app.do(t, http.MethodPost, "/api/v1/chat/messages", tokenA, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Room mitra lain ditolak
	w, _ = app.do(t, http.MethodGet, "/api/v1/chat/messages?room_id=partner_2_general", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin membalas ke room mitra A
	w, _ = app.do(t, http.MethodPost, "/api/v1/chat/messages", adminToken, gin.H{"content": "halo juga", "room_id": chat.RoomID(a.ID)})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = app.do(t, http.MethodGet, "/api/v1/chat/messages", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		RoomID   string               `json:"room_id"`
		Messages []models.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "halo admin", history.Messages[0].Content)
	assert.Equal(t, models.SenderAdmin, history.Messages[1].SenderType)

	var unread struct {
		Unread int64 `json:"unread"`
	}
	w, env = app.do(t, http.MethodGet, "/api/v1/chat/unread", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.Equal(t, int64(1), unread.Unread)

	w, _ = app.do(t, http.MethodPost, "/api/v1/chat/read", tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(t, http.MethodGet, "/api/v1/chat/unread", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &unread))
	assert.Zero(t, unread.Unread)
}
