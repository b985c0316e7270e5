package utils

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength berlaku untuk registrasi dan login.
const MinPasswordLength = 6

// PasswordTooShort dicek sebelum menyentuh database.
func PasswordTooShort(password string) bool {
	return utf8.RuneCountInString(password) < MinPasswordLength
}

// HashPassword mengubah password biasa menjadi hash bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword membandingkan password inputan dengan hash di database
func CheckPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
