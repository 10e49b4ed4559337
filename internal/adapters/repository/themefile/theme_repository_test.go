package themefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListThemes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.txt")
	content := "Space\n\n  Food  \nMovies\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	themes, err := NewThemeRepository(path).ListThemes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Space", "Food", "Movies"}, themes)
}

func TestListThemesMissingFile(t *testing.T) {
	repo := NewThemeRepository(filepath.Join(t.TempDir(), "absent.txt"))

	_, err := repo.ListThemes(context.Background())
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	themes := Fallback(100)

	require.Len(t, themes, 100)
	assert.Equal(t, "Theme 1", themes[0])
	assert.Equal(t, "Theme 100", themes[99])
}
