package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii terminal": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
		"pipe": {
			caps: TerminalCapabilities{},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_RegularFile(t *testing.T) {
	t.Parallel()

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.Equal(t, TerminalCapabilities{}, caps)
	assert.Equal(t, TerminalCapabilities{}, DetectTerminalCapabilities(nil))
}

func TestReporter_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, TerminalCapabilities{})

	r.Start("Reading commits")
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(done int) {
			defer wg.Done()
			r.Update(done, 8)
		}(i)
	}
	wg.Wait()
	assert.Empty(t, buf.String(), "nothing is animated off a terminal")

	r.Success("Read 8 commits")
	assert.Equal(t, "[OK] Read 8 commits\n", buf.String())

	buf.Reset()
	r.Fail("Lookup failed")
	assert.Equal(t, "[FAIL] Lookup failed\n", buf.String())
}

func TestReporter_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, TerminalCapabilities{SupportsUnicode: true})
	r.Stop()
	r.Stop()
	r.Success("done")
	assert.Equal(t, "✓ done\n", buf.String())
}
