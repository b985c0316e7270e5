package models

// All dipakai untuk AutoMigrate
func All() []interface{} {
	return []interface{}{
		&Partner{},
		&Order{},
		&WalletTransaction{},
		&TopupRequest{},
		&ChatMessage{},
	}
}
