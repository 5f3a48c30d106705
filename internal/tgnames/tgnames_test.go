package tgnames

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDB(t *testing.T, path, body string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestName_SpecialRanges(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing.json"))

	assert.Equal(t, NoActiveGroup, c.Name(0))
	assert.Equal(t, AutoQSY, c.Name(AutoQSYThreshold))
	assert.Equal(t, AutoQSY, c.Name(AutoQSYThreshold+55))
	assert.Equal(t, Unknown, c.Name(260))
}

func TestName_ReloadsWhenModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgdb.json")
	base := time.Now().Add(-time.Hour)
	writeDB(t, path, `{"260": "Poland", "2602": "SR2 Pomorze"}`, base)

	c := New(path)
	assert.Equal(t, "Poland", c.Name(260))
	assert.Equal(t, "SR2 Pomorze", c.Name(2602))

	writeDB(t, path, `{"260": "Polska"}`, base)
	assert.Equal(t, "Poland", c.Name(260), "same mtime must not reload")

	writeDB(t, path, `{"260": "Polska"}`, base.Add(time.Minute))
	assert.Equal(t, "Polska", c.Name(260))
	assert.Equal(t, Unknown, c.Name(2602))
}

func TestName_MalformedKeepsCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tgdb.json")
	base := time.Now().Add(-time.Hour)
	writeDB(t, path, `{"91": "Worldwide"}`, base)

	c := New(path)
	require.Equal(t, "Worldwide", c.Name(91))

	writeDB(t, path, `{"91": "Worl`, base.Add(time.Minute))
	assert.Equal(t, "Worldwide", c.Name(91))

	require.NoError(t, os.Remove(path))
	assert.Equal(t, "Worldwide", c.Name(91))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Poland", "Poland"},
		{"Łódź/Śląsk*", "ŁódźŚląsk"},
		{"TG: 260, PL-net", "TG: 260, PL-net"},
		{"<b>Kraków</b>", "bKrakówb"},
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ", "ABCDEFGHIJKLMNOPQR"},
		{"ąęśćżźńłóąęśćżźńłóąę", "ąęśćżźńłóąęśćżźńłó"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}
