// Package commission menghitung potongan komisi mitra per pesanan.
package commission

import "github.com/shopspring/decimal"

// DefaultRate dalam persen.
const DefaultRate = 15.0

var hundred = decimal.NewFromInt(100)

// Rate mengembalikan tarif yang berlaku: tarif tersimpan milik mitra kalau positif.
func Rate(partnerRate, fallback float64) float64 {
	if partnerRate > 0 {
		return partnerRate
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultRate
}

// Amount = round(price * rate / 100), dibulatkan ke Rupiah penuh.
func Amount(price, ratePercent float64) float64 {
	v := decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(ratePercent)).
		Div(hundred).
		Round(0)
	f, _ := v.Float64()
	return f
}

// Percent mengembalikan persentase amount terhadap price, dua desimal.
func Percent(amount, price float64) float64 {
	if price <= 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(amount).Mul(hundred).Div(decimal.NewFromFloat(price)).Round(2).Float64()
	return f
}

// Shortfall adalah kekurangan saldo untuk menutup komisi, 0 kalau cukup.
func Shortfall(balance, required float64) float64 {
	d := decimal.NewFromFloat(required).Sub(decimal.NewFromFloat(balance))
	if !d.IsPositive() {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Quote adalah hasil perhitungan komisi untuk satu pesanan dan satu mitra.
type Quote struct {
	Rate       float64 `json:"commission_rate"`
	Commission float64 `json:"commission"`
	CanAccept  bool    `json:"can_accept"`
	Shortfall  float64 `json:"shortfall"`
}

func For(price, balance, ratePercent float64) Quote {
	c := Amount(price, ratePercent)
	s := Shortfall(balance, c)
	return Quote{Rate: ratePercent, Commission: c, CanAccept: s == 0, Shortfall: s}
}
