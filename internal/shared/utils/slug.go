package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugMode chọn mức độ chuẩn hoá khi tạo slug.
//
//	strict: lowercase → NFD → bỏ dấu (U+0300–U+036F) → [^a-z0-9]+ thành "-" → trim "-"
//	simple: lowercase → " " thành "-" → bỏ ký tự ngoài [A-Za-z0-9_-]
//
// strict là mặc định cho cả category lẫn product. simple KHÔNG bỏ dấu mà xoá
// luôn ký tự có dấu ("Đồ Chơi" → "-chi"), có thể ra slug rỗng hoặc bắt đầu
// bằng "-"; chỉ bật khi cần khớp slug đã lưu theo rule đó.
type SlugMode string

const (
	SlugStrict SlugMode = "strict"
	SlugSimple SlugMode = "simple"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	nonWordChar = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

	combiningDiacritics = runes.In(&unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
	})
)

// ParseSlugMode parses a config value; empty means strict.
func ParseSlugMode(s string) (SlugMode, error) {
	switch SlugMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SlugStrict:
		return SlugStrict, nil
	case SlugSimple:
		return SlugSimple, nil
	default:
		return "", fmt.Errorf("unknown slug mode %q (want %q or %q)", s, SlugStrict, SlugSimple)
	}
}

// GenerateSlug tạo slug theo strict mode.
// "Áo Thun Nam" → "ao-thun-nam"
func GenerateSlug(input string) string {
	return Slugify(input, SlugStrict)
}

// Slugify tạo slug theo mode. Kết quả rỗng nghĩa là input không có ký tự nào
// dùng được; caller phải coi đó là lỗi validation.
func Slugify(input string, mode SlugMode) string {
	if mode == SlugSimple {
		return simpleSlug(input)
	}
	return strictSlug(input)
}

func strictSlug(input string) string {
	// Step 1: lowercase
	s := strings.ToLower(input)

	// Step 2+3: NFD rồi bỏ combining marks
	// "á" → "a" + U+0301 → "a"
	t := transform.Chain(norm.NFD, runes.Remove(combiningDiacritics))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	// Step 4: mỗi run ký tự ngoài [a-z0-9] thành 1 dấu "-"
	s = nonAlnumRun.ReplaceAllString(s, "-")

	// Step 5: trim "-" ở đầu/cuối
	return strings.Trim(s, "-")
}

func simpleSlug(input string) string {
	s := strings.ToLower(input)
	s = strings.ReplaceAll(s, " ", "-")
	return nonWordChar.ReplaceAllString(s, "")
}
