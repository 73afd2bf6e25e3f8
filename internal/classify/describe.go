package classify

import (
	"math"
	"strconv"
	"strings"
)

// Describe returns a short English label for the analysis, e.g. "URL" or
// "Long Text (12,345 chars)".
func Describe(a Analysis) string {
	switch a.Type {
	case TypeBase64Image:
		return "Base64 Image (" + strings.ToUpper(a.Metadata.ImageFormat) + ")"
	case TypeBase64Data:
		return "Base64 Data"
	case TypeURL:
		return "URL"
	case TypeJSON:
		return "JSON String"
	case TypeXML:
		return "XML String"
	case TypeLongText:
		return "Long Text (" + groupThousands(a.Length) + " chars)"
	default:
		return "Text"
	}
}

// Icon returns the badge glyph shown next to a classified string.
// Normal strings have no badge.
func Icon(t Type) string {
	switch t {
	case TypeBase64Image:
		return "▣"
	case TypeBase64Data:
		return "⛁"
	case TypeURL:
		return "↗"
	case TypeJSON:
		return "{}"
	case TypeXML:
		return "<>"
	case TypeLongText:
		return "¶"
	default:
		return ""
	}
}

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders n bytes with one optional decimal: "0 B", "512 B", "1.5 KB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	i := 0
	scaled := float64(n)
	for scaled >= 1024 && i < len(byteUnits)-1 {
		scaled /= 1024
		i++
	}
	rounded := math.Round(scaled*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + byteUnits[i]
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
