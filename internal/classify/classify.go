// Package classify detects special payloads inside JSON string values
// (base64 images and data, URLs, embedded JSON or XML, long text) and
// decides how much of a string the tree shows by default.
package classify

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Type is the detected content class of a string.
type Type string

const (
	TypeBase64Image Type = "base64-image"
	TypeBase64Data  Type = "base64-data"
	TypeURL         Type = "url"
	TypeJSON        Type = "json"
	TypeXML         Type = "xml"
	TypeLongText    Type = "long-text"
	TypeNormal      Type = "normal"
)

// Length thresholds, in runes.
const (
	Short    = 100
	Medium   = 500
	Long     = 5000
	VeryLong = 50000
)

// Ellipsis is appended to truncated display text.
const Ellipsis = "…"

var (
	dataImageRe = regexp.MustCompile(`^data:image/([^;]+);base64,(.+)$`)
	base64Re    = regexp.MustCompile(`^[A-Za-z0-9+/]+=*$`)
	urlPrefixes = []string{"http://", "https://", "ftp://"}
)

// Metadata carries the type-specific details of an Analysis.
type Metadata struct {
	ImageFormat     string
	EstimatedSizeKB int
	EstimatedSize   string // "<n>KB", empty when not a base64 payload
	IsValidJSON     bool
	IsValidXML      bool
}

// Analysis is the classification result for one string.
type Analysis struct {
	Type           Type
	Length         int
	IsLong         bool
	IsVeryLong     bool
	ShouldTruncate bool
	Metadata       Metadata
}

// AnalyzeString classifies s. Rules are tried in a fixed priority order and the
// first match wins: base64 image, base64 data, URL, JSON, XML, long text.
func AnalyzeString(s string) Analysis {
	n := utf8.RuneCountInString(s)
	a := Analysis{
		Type:           TypeNormal,
		Length:         n,
		IsLong:         n > Short,
		IsVeryLong:     n > Long,
		ShouldTruncate: n > Short,
	}

	if m := dataImageRe.FindStringSubmatch(s); m != nil {
		a.Type = TypeBase64Image
		a.Metadata.ImageFormat = m[1]
		a.setEstimatedSize(len(m[2]))
		return a
	}
	if n > Short && base64Re.MatchString(s) {
		a.Type = TypeBase64Data
		a.setEstimatedSize(n)
		return a
	}
	for _, p := range urlPrefixes {
		if strings.HasPrefix(s, p) {
			a.Type = TypeURL
			return a
		}
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(s)) {
			a.Type = TypeJSON
			a.Metadata.IsValidJSON = true
			return a
		}
	}
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		a.Type = TypeXML
		a.Metadata.IsValidXML = true
		return a
	}
	if n > Short {
		a.Type = TypeLongText
	}
	return a
}

// setEstimatedSize records the decoded size of a base64 payload of encodedLen chars.
func (a *Analysis) setEstimatedSize(encodedLen int) {
	kb := int(math.Floor(float64(encodedLen)*3/4/1024 + 0.5))
	a.Metadata.EstimatedSizeKB = kb
	a.Metadata.EstimatedSize = strconv.Itoa(kb) + "KB"
}

// DisplayText returns the text to show for s. Truncatable strings that are not
// expanded are cut to min(maxLen, Medium) runes followed by Ellipsis. A maxLen
// of zero or less means Short.
func DisplayText(s string, maxLen int, expanded bool) string {
	return TruncateFor(AnalyzeString(s), s, maxLen, expanded)
}

// TruncateFor is DisplayText for a string that has already been analyzed.
func TruncateFor(a Analysis, s string, maxLen int, expanded bool) string {
	if !a.ShouldTruncate || expanded {
		return s
	}
	if maxLen <= 0 {
		maxLen = Short
	}
	limit := min(maxLen, Medium)
	if a.Length <= limit {
		return s
	}
	i, count := 0, 0
	for i = range s {
		if count == limit {
			break
		}
		count++
	}
	return s[:i] + Ellipsis
}
