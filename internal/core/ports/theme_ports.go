package ports

import "context"

// ThemeRepository loads the ordered theme list at startup.
type ThemeRepository interface {
	ListThemes(ctx context.Context) ([]string, error)
}
