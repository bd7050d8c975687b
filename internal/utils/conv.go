package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns def if error
func StringToInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
