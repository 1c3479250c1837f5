package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseRecipients(t *testing.T) {
	t.Run("header with send column", func(t *testing.T) {
		rows := [][]string{
			{"Gönder?", "Hitap", "Yayınevi", "E-mail"},
			{"TRUE", "Sayın Editör", "Ana Yayınları", "ana@example.com"},
			{"FALSE", "Merhaba", "Kuzey Kitap", "kuzey@example.com"},
			{"x", "", "Deniz", "deniz@example.com"},
		}
		got := ParseRecipients(rows)
		require.Len(t, got, 2)
		assert.Equal(t, Recipient{Publisher: "Ana Yayınları", Email: "ana@example.com", Salutation: "Sayın Editör"}, got[0])
		assert.Equal(t, "Deniz", got[1].Publisher)
	})

	t.Run("header without send column keeps all", func(t *testing.T) {
		rows := [][]string{
			{"Publisher", "Email", "Salutation"},
			{"A", "a@example.com", "Dear A"},
			{"B", "b@example.com"},
		}
		got := ParseRecipients(rows)
		require.Len(t, got, 2)
		assert.Equal(t, "", got[1].Salutation)
	})

	t.Run("positional without header", func(t *testing.T) {
		rows := [][]string{
			{"A", "a@example.com", "Dear A"},
			{"B", "b@example.com", "Dear B"},
		}
		got := ParseRecipients(rows)
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].Publisher)
	})

	t.Run("missing email skipped", func(t *testing.T) {
		rows := [][]string{
			{"Yayınevi", "Mail"},
			{"A", ""},
			{"", ""},
			{"B", "b@example.com"},
		}
		got := ParseRecipients(rows)
		require.Len(t, got, 1)
		assert.Equal(t, "B", got[0].Publisher)
	})

	t.Run("missing publisher skipped", func(t *testing.T) {
		rows := [][]string{
			{"Gönder?", "Yayınevi", "E-mail"},
			{"evet", "", "editor@newhouse.com"},
			{"evet", "Ana Yayınları", "ana@example.com"},
		}
		got := ParseRecipients(rows)
		require.Len(t, got, 1)
		assert.Equal(t, "Ana Yayınları", got[0].Publisher)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, ParseRecipients(nil))
	})
}

func TestLoadRecipients(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "list.csv")
		require.NoError(t, os.WriteFile(path, []byte("Yayınevi,Email\nA,a@example.com\n"), 0o644))

		got, err := LoadRecipients(path, "")
		require.NoError(t, err)
		assert.Equal(t, []Recipient{{Publisher: "A", Email: "a@example.com"}}, got)
	})

	t.Run("xlsx first sheet", func(t *testing.T) {
		path := filepath.Join(dir, "list.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Yayınevi", "Mail", "Hitap", "Gönder?"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"A", "a@example.com", "Sayın A", "evet"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"B", "b@example.com", "Sayın B", ""}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		got, err := LoadRecipients(path, "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, Recipient{Publisher: "A", Email: "a@example.com", Salutation: "Sayın A"}, got[0])
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := filepath.Join(dir, "other.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		_, err := LoadRecipients(path, "Nope")
		assert.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := LoadRecipients(filepath.Join(dir, "list.txt"), "")
		assert.Error(t, err)
	})
}
