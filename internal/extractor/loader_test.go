package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("text file", func(t *testing.T) {
		path := filepath.Join(dir, "book.txt")
		require.NoError(t, os.WriteFile(path, []byte("Bir varmış bir yokmuş."), 0o644))

		text, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Bir varmış bir yokmuş.", text)
	})

	t.Run("missing file", func(t *testing.T) {
		text, err := LoadFile(filepath.Join(dir, "nope.txt"))
		assert.Error(t, err)
		assert.Empty(t, text)
	})

	t.Run("broken pdf", func(t *testing.T) {
		path := filepath.Join(dir, "broken.pdf")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

		text, err := LoadFile(path)
		assert.Error(t, err)
		assert.Empty(t, text)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "book.docx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported")
	})
}
