package cmd

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/internal/classify"
)

func TestCLI_AnalyzeAlignsWideKeys(t *testing.T) {
	out, err := runCLI(t, `{"日本語のキー":"x","ab":"https://e.com"}`, "analyze")
	require.NoError(t, err)

	typeColumn := func(marker string) int {
		for _, line := range strings.Split(out, "\n") {
			if idx := strings.Index(line, marker); idx >= 0 {
				return lipgloss.Width(line[:idx])
			}
		}
		t.Fatalf("no line with %q in:\n%s", marker, out)
		return -1
	}
	header := typeColumn("TYPE")
	assert.Equal(t, header, typeColumn("Text"), "output:\n%s", out)
	assert.Equal(t, header, typeColumn("↗ URL"), "output:\n%s", out)
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Text", typeLabel(classify.AnalyzeString("hi")))
	assert.Equal(t, "↗ URL", typeLabel(classify.AnalyzeString("https://example.com")))
}

func TestAlignColumns(t *testing.T) {
	t.Parallel()

	got := alignColumns([][]string{
		{"A", "B", "C"},
		{"ключ", "x", "1"},
		{"鍵", "yy", "22"},
	})
	assert.Equal(t, "A     B   C\nключ  x   1\n鍵    yy  22\n", got)
}
