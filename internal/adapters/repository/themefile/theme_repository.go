// Package themefile loads themes from a newline-delimited text file, one
// theme per line. Blank lines are skipped.
package themefile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/botornot/api/internal/core/ports"
)

type themeRepository struct {
	path string
}

func NewThemeRepository(path string) ports.ThemeRepository {
	return &themeRepository{path: path}
}

func (r *themeRepository) ListThemes(ctx context.Context) ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open themes file: %w", err)
	}
	defer f.Close()

	var themes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		themes = append(themes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read themes file: %w", err)
	}

	return themes, nil
}

// Fallback returns a generic numbered list used when no theme source is
// configured or readable. Content is a placeholder; operators are expected
// to supply a real list.
func Fallback(n int) []string {
	themes := make([]string, n)
	for i := range themes {
		themes[i] = fmt.Sprintf("Theme %d", i+1)
	}
	return themes
}
