package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	first string
	rows  map[string][][]string
	err   error
}

func (f *fakeRows) FirstSheet(context.Context) (string, error) { return f.first, f.err }

func (f *fakeRows) Rows(_ context.Context, sheet string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[sheet], nil
}

func TestSheetsSource_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("first worksheet by default", func(t *testing.T) {
		src := &SheetsSource{
			Reader:  &fakeRows{first: "Form Responses 1", rows: map[string][][]string{"Form Responses 1": surveyRows()}},
			Columns: DefaultColumns,
		}
		publishers, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, publishers, 3)
	})

	t.Run("named worksheet", func(t *testing.T) {
		src := &SheetsSource{
			Reader:  &fakeRows{rows: map[string][][]string{"Roster": surveyRows()}},
			Sheet:   "Roster",
			Columns: DefaultColumns,
		}
		publishers, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Kuzey Kitap", publishers[1].Name)
	})

	t.Run("read failure", func(t *testing.T) {
		src := &SheetsSource{Reader: &fakeRows{err: errors.New("403")}, Columns: DefaultColumns}
		_, err := src.Load(ctx)
		assert.Error(t, err)
	})
}

func TestFileSource_Load(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("csv with bom", func(t *testing.T) {
		path := filepath.Join(dir, "roster.csv")
		content := "\xef\xbb\xbfYayınevi Adı,Öne çıkan türler\nAna Yayınları,\"Roman, öykü\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		publishers, err := (&FileSource{Path: path, Columns: DefaultColumns}).Load(ctx)
		require.NoError(t, err)
		require.Len(t, publishers, 1)
		assert.Equal(t, "Ana Yayınları", publishers[0].Name)
		assert.Contains(t, publishers[0].Profile, "- Öne çıkan türler: Roman, öykü\n")
	})

	t.Run("yaml keeps field order", func(t *testing.T) {
		path := filepath.Join(dir, "roster.yaml")
		content := `publishers:
  - Yayınevi Adı: Kuzey Kitap
    Zaman damgası: "2026-02-02"
    Öne çıkan türler: Gerilim
    Aradığımız: Hızlı tempolu romanlar
  - Yayınevi Adı: Deniz
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		publishers, err := (&FileSource{Path: path, Columns: DefaultColumns}).Load(ctx)
		require.NoError(t, err)
		require.Len(t, publishers, 2)
		assert.Equal(t, "PUBLISHER ID/NAME: Kuzey Kitap\n"+
			"- Yayınevi Adı: Kuzey Kitap\n"+
			"- Öne çıkan türler: Gerilim\n"+
			"- Aradığımız: Hızlı tempolu romanlar\n", publishers[0].Profile)
	})

	t.Run("yaml bare list", func(t *testing.T) {
		path := filepath.Join(dir, "bare.yml")
		require.NoError(t, os.WriteFile(path, []byte("- Yayınevi Adı: A\n- Yayınevi Adı: B\n"), 0o644))

		publishers, err := (&FileSource{Path: path, Columns: DefaultColumns}).Load(ctx)
		require.NoError(t, err)
		assert.Len(t, publishers, 2)
	})

	t.Run("yaml nested value rejected", func(t *testing.T) {
		path := filepath.Join(dir, "nested.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- Yayınevi Adı: A\n  Türler: [a, b]\n"), 0o644))

		_, err := (&FileSource{Path: path, Columns: DefaultColumns}).Load(ctx)
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "roster.json")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

		_, err := (&FileSource{Path: path}).Load(ctx)
		assert.Error(t, err)
	})
}
