package invoice

import (
	"fmt"

	"smartcare-backend/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload adalah teks yang dikodekan di QR verifikasi invoice.
func QRPayload(order models.Order, partner models.Partner) string {
	return fmt.Sprintf("SMARTCARE|%s|%d|%.0f", order.OrderNumber, partner.ID, totalPaid(order))
}

// QRCodePNG menghasilkan gambar PNG QR untuk invoice.
func QRCodePNG(order models.Order, partner models.Partner, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(QRPayload(order, partner), qrcode.Medium, size)
}
