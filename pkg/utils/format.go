package utils

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah: 15000 -> "Rp 15.000"
func FormatRupiah(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return "-Rp " + idPrinter.Sprintf("%d", -n)
	}
	return "Rp " + idPrinter.Sprintf("%d", n)
}

var hari = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

var bulan = [...]string{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember"}

// FormatTanggal: "Kamis, 15 Oktober 2026 14.30"
func FormatTanggal(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d %02d.%02d",
		hari[t.Weekday()], t.Day(), bulan[t.Month()], t.Year(), t.Hour(), t.Minute())
}
