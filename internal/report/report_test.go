package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surge-downloader/fastdl/internal/engine/types"
)

func sampleResults() []types.Result {
	return []types.Result{
		{URL: "https://x/a", Filename: "a.bin", Success: true, BytesWritten: 1024, AverageMBps: 2.5, ElapsedSeconds: 1.1},
		{URL: "https://x/b", Success: false, Error: "connection refused"},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(path, sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []types.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleResults(), decoded)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleResults())
	out := buf.String()
	assert.Contains(t, out, "OK   a.bin")
	assert.Contains(t, out, "FAIL https://x/b: connection refused")
	assert.Contains(t, out, "1 succeeded, 1 failed")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode([]types.Result{{Success: true}, {Success: true}}))
	assert.Equal(t, 1, ExitCode([]types.Result{{Success: true}, {Success: false}}))
	assert.Equal(t, 1, ExitCode([]types.Result{{Success: false}, {Success: false}}), "every URL failing is still exit 1, not a config error")
	assert.Equal(t, 2, ExitCode(nil))
}
