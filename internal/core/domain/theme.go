package domain

// ThemeCatalog is the ordered list of candidate topics, loaded once at
// startup. Themes are addressed by 1-based index everywhere outside this
// package, matching how they are numbered when presented to a chat.
type ThemeCatalog struct {
	themes []string
}

func NewThemeCatalog(themes []string) (*ThemeCatalog, error) {
	if len(themes) == 0 {
		return nil, ErrEmptyCatalog
	}
	owned := make([]string, len(themes))
	copy(owned, themes)
	return &ThemeCatalog{themes: owned}, nil
}

// Theme returns the theme at the given 1-based index.
func (c *ThemeCatalog) Theme(index int) (string, error) {
	if index < 1 || index > len(c.themes) {
		return "", ErrOutOfRangeSelection
	}
	return c.themes[index-1], nil
}

func (c *ThemeCatalog) Len() int {
	return len(c.themes)
}

// Themes returns a copy of the full ordered list.
func (c *ThemeCatalog) Themes() []string {
	out := make([]string, len(c.themes))
	copy(out, c.themes)
	return out
}
