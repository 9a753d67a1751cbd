package api

import (
	"net/http"

	"github.com/mtzs0/kockabarlang-party-planner/theme"
)

type getThemesResponse struct {
	Themes []theme.Theme `json:"themes"`
}

func (a *API) getThemes(w http.ResponseWriter, r *http.Request) {
	themeAccessor := theme.NewAccessor(a.db)
	themes, err := themeAccessor.GetThemes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.Response(w, http.StatusOK, getThemesResponse{Themes: themes})
}
