package services

import (
	"context"
	"fmt"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// EarningsService membaca ringkasan pendapatan dan riwayat saldo mitra.
type EarningsService struct {
	db *gorm.DB
}

func NewEarningsService(db *gorm.DB) *EarningsService {
	return &EarningsService{db: db}
}

type EarningRow struct {
	OrderID     uint64  `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	ServiceName string  `json:"service_name"`
	Customer    string  `json:"customer_name"`
	Price       float64 `json:"price"`
	Commission  float64 `json:"commission"`
	Net         float64 `json:"net"`
	CompletedAt string  `json:"completed_at"`
}

type Earnings struct {
	Balance         float64      `json:"balance"`
	CompletedJobs   int          `json:"completed_jobs"`
	GrossRevenue    float64      `json:"gross_revenue"`
	TotalCommission float64      `json:"total_commission"`
	NetRevenue      float64      `json:"net_revenue"`
	Rows            []EarningRow `json:"rows"`
}

// Summary hanya menghitung pesanan selesai, karena komisi baru terpotong saat selesai.
func (s *EarningsService) Summary(ctx context.Context, partnerID uint64) (*Earnings, error) {
	db := s.db.WithContext(ctx)

	var partner models.Partner
	if err := db.First(&partner, partnerID).Error; err != nil {
		return nil, ErrPartnerNotFound
	}

	var orders []models.Order
	if err := db.Where("partner_id = ? AND status = ?", partnerID, models.OrderStatusCompleted).
		Order("completed_at desc, id desc").
		Find(&orders).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal memuat pendapatan")
	}

	out := &Earnings{Balance: partner.Balance, CompletedJobs: len(orders), Rows: make([]EarningRow, 0, len(orders))}
	for _, o := range orders {
		price := o.TotalAmount
		if price <= 0 {
			price = o.PricePerHour
		}
		row := EarningRow{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			ServiceName: o.ServiceName,
			Customer:    o.CustomerName,
			Price:       price,
			Commission:  o.CommissionAmount,
			Net:         price - o.CommissionAmount,
		}
		if o.CompletedAt != nil {
			row.CompletedAt = o.CompletedAt.Format("2006-01-02 15:04")
		}
		out.GrossRevenue += row.Price
		out.TotalCommission += row.Commission
		out.Rows = append(out.Rows, row)
	}
	out.NetRevenue = out.GrossRevenue - out.TotalCommission
	return out, nil
}

// Transactions: riwayat mutasi saldo, terbaru dulu.
func (s *EarningsService) Transactions(ctx context.Context, partnerID uint64, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []models.WalletTransaction
	if err := s.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, apperror.Internal(err, "Gagal memuat riwayat saldo")
	}
	return list, nil
}

// ExportXLSX membuat laporan pendapatan dalam format Excel.
func (s *EarningsService) ExportXLSX(ctx context.Context, partnerID uint64) ([]byte, error) {
	summary, err := s.Summary(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Pendapatan"
	index, _ := f.NewSheet(sheet)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"No. Pesanan", "Layanan", "Pelanggan", "Selesai", "Harga", "Komisi", "Bersih"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range summary.Rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.OrderNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.ServiceName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Customer)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.CompletedAt)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Price)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Commission)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Net)
		row++
	}

	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), summary.GrossRevenue)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), summary.TotalCommission)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), summary.NetRevenue)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Internal(err, "Gagal membuat file Excel")
	}
	return buf.Bytes(), nil
}
