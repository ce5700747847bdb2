package linux_installer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaintSkipsNonTerminals(t *testing.T) {
	assert.Equal(t, "Done!", paint(&bytes.Buffer{}, color.Green, "Done!"))

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
	assert.Equal(t, "failed", paint(f, color.Red, "failed"))
}
