package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// AnonymousName 用户未设置显示名时使用
	AnonymousName = "Anonymous User"
	DefaultAvatar = "/placeholder.svg?height=40&width=40"
)

// Initials 取每个单词的首字母并转为大写，例如 "Alex Johnson" -> "AJ"
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
