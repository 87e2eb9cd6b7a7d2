package mux

import (
	"errors"
	"net/http"

	"fodinha-server/pkg/profile"
	gmux "github.com/gorilla/mux"
)

func (m *Mux) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.profiles == nil {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		p, err := m.profiles.Get(r.Context(), gmux.Vars(r)["name"])
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				writeJSONError(w, http.StatusNotFound, nil)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}
