package domain

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	skuPrefixLen      = 3
	skuFallbackPrefix = "PRD"
	skuRandomWidth    = 8
)

// GenerateSKU строит артикул вида {CAT}-{base36 времени}-{случайный суффикс},
// например ACC-M2F1Q9ZK-0J4X8Z1P.
func GenerateSKU(category string, now time.Time) string {
	var b strings.Builder
	b.WriteString(skuPrefix(category))
	b.WriteByte('-')
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	b.WriteByte('-')
	b.WriteString(skuRandomSuffix())
	return b.String()
}

// skuPrefix берёт первые три буквы категории в верхнем регистре.
func skuPrefix(category string) string {
	prefix := make([]rune, 0, skuPrefixLen)
	for _, r := range category {
		if len(prefix) == skuPrefixLen {
			break
		}
		if unicode.IsLetter(r) {
			prefix = append(prefix, unicode.ToUpper(r))
		}
	}
	if len(prefix) == 0 {
		return skuFallbackPrefix
	}
	return string(prefix)
}

// skuRandomSuffix — 40 случайных бит uuid v4 в base36, дополненные нулями до фиксированной ширины.
func skuRandomSuffix() string {
	id := uuid.New()
	var buf [8]byte
	copy(buf[3:], id[:5])
	s := strings.ToUpper(strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36))
	if len(s) < skuRandomWidth {
		s = strings.Repeat("0", skuRandomWidth-len(s)) + s
	}
	return s
}
