package services

import "smartcare-backend/internal/apperror"

var (
	ErrPartnerNotFound = apperror.New(apperror.ErrCodeNotFound, "Mitra tidak ditemukan")
	ErrOrderNotFound   = apperror.New(apperror.ErrCodeNotFound, "Pesanan tidak ditemukan")
	ErrTopupNotFound   = apperror.New(apperror.ErrCodeNotFound, "Permintaan top up tidak ditemukan")

	// ErrOrderTaken: klaim kalah cepat. Frontend cukup memuat ulang daftar pesanan.
	ErrOrderTaken      = apperror.New(apperror.ErrCodeConflict, "Pesanan sudah diambil mitra lain")
	ErrOrderForOther   = apperror.New(apperror.ErrCodeForbidden, "Maaf, pesanan ini khusus untuk mitra lain")
	ErrPartnerInactive = apperror.New(apperror.ErrCodeForbidden, "Akun Anda tidak aktif, hubungi admin")
	ErrNotConfirmed    = apperror.New(apperror.ErrCodeConflict, "Pesanan belum dikonfirmasi atau sudah selesai")
	ErrNotStarted      = apperror.New(apperror.ErrCodeConflict, "Pekerjaan belum dimulai")
	ErrTopupResolved   = apperror.New(apperror.ErrCodeConflict, "Permintaan top up sudah diproses")
	ErrMidtransOff     = apperror.New(apperror.ErrCodeValidation, "Pembayaran Midtrans belum tersedia, gunakan transfer")
	ErrNotMidtrans     = apperror.New(apperror.ErrCodeForbidden, "Top up ini tidak dibayar lewat Midtrans")
	ErrInvoiceNotReady = apperror.New(apperror.ErrCodeConflict, "Invoice hanya tersedia untuk pesanan yang sudah selesai")
)
