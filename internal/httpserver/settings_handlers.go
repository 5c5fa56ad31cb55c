package httpserver

import (
	"encoding/json"
	"net/http"

	"mediwallet/internal/domain"
)

// handleGetSettings godoc
// @Summary      Get user settings
// @Description  Returns null when nothing has been saved yet
// @Tags         settings
// @Produce      json
// @Success      200  {object}  domain.UserSettings
// @Router       /settings [get]
func handleGetSettings(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := b.GetUserSettings(r.Context())
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// handleSaveSettings godoc
// @Summary      Update user settings
// @Description  Merges the supplied fields into the stored settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        input body domain.UserSettingsPatch true "Fields to change"
// @Success      200  {object}  domain.UserSettings
// @Failure      400  {object}  map[string]string
// @Router       /settings [patch]
func handleSaveSettings(b domain.Backend, errs *errorWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p domain.UserSettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		s, err := b.SaveUserSettings(r.Context(), p)
		if err != nil {
			errs.write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
