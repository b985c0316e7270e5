package utils

import "strconv"

// ParseID mengubah parameter URL menjadi ID. ok=false kalau bukan angka positif.
func ParseID(str string) (uint64, bool) {
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil || val == 0 {
		return 0, false
	}
	return val, true
}
