// Package invoice menyusun invoice teks untuk pesanan yang sudah selesai.
package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smartcare-backend/internal/commission"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"
)

const ContentType = "text/plain; charset=utf-8"

const garis = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Breakdown adalah rincian biaya yang tercetak di invoice.
type Breakdown struct {
	Rate       float64 `json:"rate"`
	Commission float64 `json:"commission"`
	Percent    float64 `json:"commission_rate"`
	Total      float64 `json:"total"`
}

// Compute menyusun rincian biaya. fallbackRate adalah tarif default dari konfigurasi.
// Untuk pesanan selesai, komisi yang tercetak adalah komisi yang benar-benar dipotong.
func Compute(order models.Order, partner models.Partner, fallbackRate float64) Breakdown {
	rate := commission.Rate(partner.CommissionRate, fallbackRate)
	amount := commission.Amount(order.PricePerHour, rate)
	if order.Status == models.OrderStatusCompleted && order.CommissionAmount > 0 && order.CommissionAmount != amount {
		amount = order.CommissionAmount
		rate = commission.Percent(amount, order.PricePerHour)
	}
	return Breakdown{
		Rate:       order.PricePerHour,
		Commission: amount,
		Percent:    rate,
		Total:      totalPaid(order),
	}
}

func totalPaid(order models.Order) float64 {
	if order.TotalAmount > 0 {
		return order.TotalAmount
	}
	return order.PricePerHour
}

// Filename: Invoice_<order_number>.txt
func Filename(order models.Order) string {
	return fmt.Sprintf("Invoice_%s.txt", order.OrderNumber)
}

// Render menghasilkan teks invoice. generatedAt adalah waktu cetak, bukan waktu selesai.
func Render(order models.Order, partner models.Partner, fallbackRate float64, generatedAt time.Time) string {
	b := Compute(order, partner, fallbackRate)

	var sb strings.Builder
	sb.WriteString("╔══════════════════════════════════════╗\n")
	sb.WriteString("║           INVOICE SMARTCARE          ║\n")
	sb.WriteString("║        Indonesia Healthcare          ║\n")
	sb.WriteString("╚══════════════════════════════════════╝\n\n")

	sb.WriteString("📋 DETAIL PEKERJAAN\n")
	sb.WriteString(garis + "\n")
	line(&sb, "No. Pesanan", order.OrderNumber)
	line(&sb, "Layanan", order.ServiceName)
	line(&sb, "Mitra", partner.BusinessName)
	line(&sb, "PIC", partner.OwnerName)
	line(&sb, "Status", "Selesai ✅")
	sb.WriteString("\n")

	sb.WriteString("💰 RINCIAN BIAYA\n")
	sb.WriteString(garis + "\n")
	line(&sb, "Tarif Layanan", utils.FormatRupiah(b.Rate))
	line(&sb, "Komisi Mitra", fmt.Sprintf("%s (%g%%)", utils.FormatRupiah(b.Commission), b.Percent))
	line(&sb, "Total Dibayar", utils.FormatRupiah(b.Total))
	sb.WriteString("\n")

	sb.WriteString("📅 INFORMASI WAKTU\n")
	sb.WriteString(garis + "\n")
	line(&sb, "Tanggal Selesai", utils.FormatTanggal(generatedAt))
	line(&sb, "Durasi Kerja", "Sesuai kebutuhan")
	sb.WriteString("\n")

	sb.WriteString("🏥 SMARTCARE INDONESIA\n")
	sb.WriteString(garis + "\n")
	sb.WriteString("Layanan Kesehatan Terpercaya\n")
	sb.WriteString("Website: smartcare.id\n")
	sb.WriteString("Hotline: 081299660660\n\n")
	sb.WriteString("Terima kasih telah bergabung dengan\n")
	sb.WriteString("SmartCare Indonesia! 🙏\n")
	sb.WriteString("════════════════════════════════════════\n")

	return sb.String()
}

func line(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "%-16s: %s\n", label, value)
}

// SimulateSend meniru pengiriman invoice ke chat: menunggu delay lalu selalu sukses.
// Tidak ada pesan yang benar-benar disimpan.
func SimulateSend(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
