package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	day := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return day }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "stdout_2026-10-14.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))

	n, err := w.Write(nil)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
