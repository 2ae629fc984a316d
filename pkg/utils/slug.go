package utils

import (
	"strings"
	"unicode"
)

// Slugify 生成 URL 安全的 slug：小写、非字母数字折叠成 '-'
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的 '-'
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
