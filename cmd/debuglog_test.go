package cmd

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/internal/config"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
)

func TestDebugCollectorKeepsLastLines(t *testing.T) {
	t.Parallel()

	d := newDebugCollector(3)
	for i := 1; i <= 5; i++ {
		_, err := fmt.Fprintf(d, "line %d\n", i)
		require.NoError(t, err)
	}
	_, err := d.Write([]byte("a\nb\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "line 5\na\nb\n", out.String())

	out.Reset()
	require.NoError(t, d.Flush(&out))
	assert.Empty(t, out.String(), "flush empties the collector")
}

func TestSetupHoldsDebugLogsDuringViewer(t *testing.T) {
	tests := map[string]struct {
		interactive bool
		snapshot    bool
		collected   bool
	}{
		"viewer":          {interactive: true, collected: true},
		"viewer snapshot": {interactive: true, snapshot: true},
		"plain output":    {},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			o := &rootOptions{
				debug:       true,
				interactive: tt.interactive,
				snapshot:    tt.snapshot,
				inputFormat: string(loader.FormatAuto),
				indent:      config.DefaultIndent,
			}
			cmd := &cobra.Command{Use: "jsonlens"}
			cmd.SetContext(context.Background())
			require.NoError(t, o.setup(cmd))

			if !tt.collected {
				assert.Nil(t, o.debugLog)
				return
			}
			require.NotNil(t, o.debugLog)
			logger.FromContext(cmd.Context()).V(1).Info("viewer started", logger.PathKey, "items.0")

			var out bytes.Buffer
			require.NoError(t, o.debugLog.Flush(&out))
			assert.Contains(t, out.String(), `"message":"viewer started"`)
			assert.Contains(t, out.String(), `"path":"items.0"`)
			assert.Contains(t, out.String(), `"sub_command":"jsonlens"`)
		})
	}
}
