package chat

import (
	"fmt"
	"strconv"
	"strings"

	"smartcare-backend/internal/apperror"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"
)

// RoomID: satu room per mitra, dipakai bersama admin.
func RoomID(partnerID uint64) string {
	return fmt.Sprintf("partner_%d_general", partnerID)
}

// PartnerFromRoom kebalikan RoomID.
func PartnerFromRoom(room string) (uint64, bool) {
	if !strings.HasPrefix(room, "partner_") || !strings.HasSuffix(room, "_general") {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(room, "partner_"), "_general")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// CanAccess: mitra hanya boleh ke room miliknya, admin ke room mitra mana pun.
func CanAccess(role string, userID uint64, room string) bool {
	owner, ok := PartnerFromRoom(room)
	if !ok {
		return false
	}
	switch role {
	case utils.RoleAdmin:
		return true
	case utils.RolePartner:
		return owner == userID
	default:
		return false
	}
}

// ResolveRoom menentukan room dari token dan permintaan klien.
// Mitra yang tidak menyebut room otomatis masuk ke room miliknya.
func ResolveRoom(role string, userID uint64, requested string) (string, error) {
	if requested == "" {
		if role == utils.RolePartner {
			return RoomID(userID), nil
		}
		return "", apperror.New(apperror.ErrCodeValidation, "room_id wajib diisi")
	}
	if !CanAccess(role, userID, requested) {
		return "", apperror.New(apperror.ErrCodeForbidden, "Anda tidak punya akses ke room ini")
	}
	return requested, nil
}

// SenderType memetakan role token ke sender_type pesan.
func SenderType(role string) string {
	if role == utils.RoleAdmin {
		return models.SenderAdmin
	}
	return models.SenderPartner
}
