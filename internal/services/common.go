package services

import "strconv"

func idField(id uint) string {
	return "id=" + strconv.FormatUint(uint64(id), 10)
}
