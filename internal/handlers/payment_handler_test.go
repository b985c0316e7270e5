package handlers

import (
	"context"
	"net/http"
	"testing"

	"smartcare-backend/internal/config"
	"smartcare-backend/internal/models"
	"smartcare-backend/internal/services"
	"smartcare-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerKey = "server-key"

func setupPayment(t *testing.T, serverKey string) (*gin.Engine, *services.TopupService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.DB = testutil.NewDB(t)
	topups := services.NewTopupService(config.DB, nil, nil, nil, 50000)

	r := gin.New()
	r.POST("/notification", NewPaymentHandler(topups, serverKey).HandleMidtransNotification)
	return r, topups
}

// signed membuat notifikasi dengan signature yang valid untuk testServerKey
func signed(ref, status, fraud string) MidtransNotification {
	n := MidtransNotification{
		OrderID:           ref,
		TransactionStatus: status,
		FraudStatus:       fraud,
		StatusCode:        "200",
		GrossAmount:       "100000.00",
	}
	n.SignatureKey = MidtransSignature(n, testServerKey)
	return n
}

func TestMidtransNotification_Settlement(t *testing.T) {
	r, _ := setupPayment(t, testServerKey)
	partner := testutil.CreatePartner(t, config.DB, "mitra@test.id", 0)
	req := testutil.CreateTopup(t, config.DB, partner.ID, 100000, models.PaymentMidtrans)

	w := postJSON(r, "/notification", signed(req.PaymentRef, "settlement", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100000.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)

	// Notifikasi ganda tidak menambah saldo lagi
	w = postJSON(r, "/notification", signed(req.PaymentRef, "settlement", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100000.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)
}

func TestMidtransNotification_PendingAndExpire(t *testing.T) {
	r, _ := setupPayment(t, testServerKey)
	partner := testutil.CreatePartner(t, config.DB, "mitra@test.id", 0)
	req := testutil.CreateTopup(t, config.DB, partner.ID, 100000, models.PaymentMidtrans)

	w := postJSON(r, "/notification", signed(req.PaymentRef, "pending", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TopupStatusPending, testutil.Reload[models.TopupRequest](t, config.DB, req.ID).Status)

	w = postJSON(r, "/notification", signed(req.PaymentRef, "capture", "challenge"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TopupStatusPending, testutil.Reload[models.TopupRequest](t, config.DB, req.ID).Status)

	w = postJSON(r, "/notification", signed(req.PaymentRef, "expire", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TopupStatusRejected, testutil.Reload[models.TopupRequest](t, config.DB, req.ID).Status)
	assert.Equal(t, 0.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)
}

func TestMidtransNotification_Signature(t *testing.T) {
	r, _ := setupPayment(t, testServerKey)
	partner := testutil.CreatePartner(t, config.DB, "mitra@test.id", 0)
	req := testutil.CreateTopup(t, config.DB, partner.ID, 100000, models.PaymentMidtrans)

	n := signed(req.PaymentRef, "settlement", "")
	n.SignatureKey = "palsu"
	w := postJSON(r, "/notification", n)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)

	w = postJSON(r, "/notification", signed(req.PaymentRef, "settlement", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100000.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)
}

func TestMidtransNotification_RefusedWithoutServerKey(t *testing.T) {
	r, topups := setupPayment(t, "")
	partner := testutil.CreatePartner(t, config.DB, "mitra@test.id", 0)
	res, err := topups.Create(context.Background(), partner.ID, models.CreateTopupInput{Amount: 1000000})
	require.NoError(t, err)

	// Mitra tahu payment_ref miliknya sendiri dari response top up
	w := postJSON(r, "/notification", gin.H{"order_id": res.Request.PaymentRef, "transaction_status": "settlement"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 0.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)
	assert.Equal(t, models.TopupStatusPending, testutil.Reload[models.TopupRequest](t, config.DB, res.Request.ID).Status)
}

func TestMidtransNotification_TransferTopupNotResolvable(t *testing.T) {
	r, _ := setupPayment(t, testServerKey)
	partner := testutil.CreatePartner(t, config.DB, "mitra@test.id", 0)
	req := testutil.CreateTopup(t, config.DB, partner.ID, 1000000, models.PaymentTransfer)

	w := postJSON(r, "/notification", signed(req.PaymentRef, "settlement", ""))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0.0, testutil.Reload[models.Partner](t, config.DB, partner.ID).Balance)
	assert.Equal(t, models.TopupStatusPending, testutil.Reload[models.TopupRequest](t, config.DB, req.ID).Status)
}

func TestMidtransNotification_UnknownRef(t *testing.T) {
	r, _ := setupPayment(t, testServerKey)
	w := postJSON(r, "/notification", signed("TOPUP-tidak-ada", "settlement", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
