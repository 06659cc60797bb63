package http

import (
	"encoding/json"
	"net/http"

	"github.com/passvault-io/passvault/internal/config"
)

// configView is the subset of options exposed over HTTP. The token signing
// secret is deliberately absent from the wire format.
type configView struct {
	Addr        string `json:"serverAddress"`
	DatabaseDSN string `json:"databaseDSN"`
	LogLevel    string `json:"logLevel"`
}

// ConfigHandler serves the process configuration endpoints.
type ConfigHandler struct {
	// Options is the live process configuration.
	Options *config.Options
}

// Get handles GET /api/configuration/get.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	view := configView{
		Addr:        h.Options.Addr,
		DatabaseDSN: h.Options.DatabaseDSN,
		LogLevel:    h.Options.LogLevel,
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles POST /api/configuration/update. The new values are written
// to the config file and take effect on the next start; the listening
// address and database connection are not re-bound in flight.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var view configView
	if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	h.Options.Addr = view.Addr
	h.Options.DatabaseDSN = view.DatabaseDSN
	if view.LogLevel != "" {
		h.Options.LogLevel = view.LogLevel
	}

	if err := config.Save(h.Options, h.Options.Config); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save configuration")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "configuration updated"})
}
