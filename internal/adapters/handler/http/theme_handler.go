package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
)

// themePageSize is how many themes the chat sees before asking for the full
// list.
const themePageSize = 10

type ThemeHandler struct {
	service ports.GameService
}

func NewThemeHandler(service ports.GameService) *ThemeHandler {
	return &ThemeHandler{
		service: service,
	}
}

type themesResponse struct {
	Themes []string `json:"themes"`
	Total  int      `json:"total"`
}

// ListThemes godoc
// @Summary      Lists candidate themes
// @Description  Returns the first page of themes, numbered from 1; pass all=1 for the complete list.
// @Tags         themes
// @Success      200
// @Router       /themes [get]
func (h *ThemeHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes := h.service.Themes()
	total := len(themes)

	if r.URL.Query().Get("all") == "" && total > themePageSize {
		themes = themes[:themePageSize]
	}

	writeJSON(w, http.StatusOK, themesResponse{Themes: themes, Total: total})
}

// resultsSummary renders a one-line-per-option digest for broadcast
// payloads. Long answers are cut to 40 runes; full text travels separately
// in the options field.
func resultsSummary(results domain.Results) string {
	lines := make([]string, 0, len(results.Entries)+1)
	for _, e := range results.Entries {
		text := ""
		if e.Index < len(results.Options) {
			text = truncateRunes(results.Options[e.Index], 40)
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %d votes (%.1f%%)", e.Index+1, text, e.Count, e.Percentage))
	}
	lines = append(lines, fmt.Sprintf("The generated answer was: %q", results.DecoyAnswer))
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
