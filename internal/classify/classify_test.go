package classify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeStringPriority(t *testing.T) {
	longB64 := strings.Repeat("QUJD", 30) // 120 chars of base64 alphabet
	tests := []struct {
		name string
		in   string
		want Type
	}{
		{"data image", "data:image/png;base64,iVBORw0KGgo=", TypeBase64Image},
		{"base64 data", longB64, TypeBase64Data},
		{"short base64 is text", "QUJD", TypeNormal},
		{"https url", "https://example.com/a?b=c", TypeURL},
		{"ftp url", "ftp://files.example.com", TypeURL},
		{"json object", `  {"a": [1, 2]}  `, TypeJSON},
		{"json array", `[1,2,3]`, TypeJSON},
		{"broken json falls through", `{not json}`, TypeNormal},
		{"non-json whitespace before object", "\u00a0{}", TypeNormal},
		{"broken json bracket xml-like", `[<a>]`, TypeNormal},
		{"xml", `<note><to>x</to></note>`, TypeXML},
		{"long text", strings.Repeat("word ", 30), TypeLongText},
		{"normal", "hello", TypeNormal},
		{"empty", "", TypeNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeString(tt.in).Type)
		})
	}
}

func TestAnalyzeStringImageMetadata(t *testing.T) {
	payload := strings.Repeat("A", 4096)
	a := AnalyzeString("data:image/jpeg;base64," + payload)
	assert.Equal(t, TypeBase64Image, a.Type)
	assert.Equal(t, "jpeg", a.Metadata.ImageFormat)
	assert.Equal(t, 3, a.Metadata.EstimatedSizeKB)
	assert.Equal(t, "3KB", a.Metadata.EstimatedSize)
}

func TestAnalyzeStringLengthFlags(t *testing.T) {
	a := AnalyzeString(strings.Repeat("é", 101))
	assert.Equal(t, 101, a.Length, "length counts runes")
	assert.True(t, a.IsLong)
	assert.True(t, a.ShouldTruncate)
	assert.False(t, a.IsVeryLong)

	a = AnalyzeString(strings.Repeat("x ", 2501))
	assert.True(t, a.IsVeryLong)

	a = AnalyzeString(strings.Repeat("x", 100))
	assert.False(t, a.ShouldTruncate)
}

func TestAnalyzeStringJSONFlag(t *testing.T) {
	a := AnalyzeString(`{"k":true}`)
	assert.True(t, a.Metadata.IsValidJSON)
	assert.False(t, a.Metadata.IsValidXML)
	a = AnalyzeString(`<x/>`)
	assert.True(t, a.Metadata.IsValidXML)
}

func TestDisplayText(t *testing.T) {
	huge := strings.Repeat("lorem ipsum ", 834)[:10000]

	collapsed := DisplayText(huge, 1000, false)
	assert.LessOrEqual(t, utf8.RuneCountInString(collapsed), 501)
	assert.True(t, strings.HasSuffix(collapsed, Ellipsis))

	assert.Equal(t, huge, DisplayText(huge, 1000, true))

	def := DisplayText(huge, 0, false)
	assert.Equal(t, Short+1, utf8.RuneCountInString(def))

	assert.Equal(t, "short", DisplayText("short", 0, false))

	mid := strings.Repeat("m", 150)
	assert.Equal(t, mid, DisplayText(mid, 200, false), "limit above length keeps text")
}

func TestDisplayTextMultibyte(t *testing.T) {
	s := strings.Repeat("日本", 100)
	out := DisplayText(s, 10, false)
	assert.Equal(t, strings.Repeat("日本", 5)+Ellipsis, out)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Base64 Image (PNG)", Describe(AnalyzeString("data:image/png;base64,AAAA")))
	assert.Equal(t, "URL", Describe(AnalyzeString("http://x")))
	assert.Equal(t, "JSON String", Describe(AnalyzeString("[]")))
	assert.Equal(t, "XML String", Describe(AnalyzeString("<a></a>")))
	assert.Equal(t, "Text", Describe(AnalyzeString("plain")))
	assert.Equal(t, "Base64 Data", Describe(AnalyzeString(strings.Repeat("Zm9v", 40))))
	assert.Equal(t, "Long Text (12,345 chars)", Describe(Analysis{Type: TypeLongText, Length: 12345}))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1 KB", FormatBytes(1024))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2 MB", FormatBytes(2*1024*1024))
	assert.Equal(t, "1 GB", FormatBytes(1<<30))
	assert.Equal(t, "1024 GB", FormatBytes(1<<40))
}

func TestIcon(t *testing.T) {
	assert.Empty(t, Icon(TypeNormal))
	for _, typ := range []Type{TypeBase64Image, TypeBase64Data, TypeURL, TypeJSON, TypeXML, TypeLongText} {
		assert.NotEmpty(t, Icon(typ), string(typ))
	}
}
