package api

import (
	"context"
	"net/http"

	service "github.com/okian/pitchside/internal/app"
)

// SettingsDependencies manages club preferences and stored data.
type SettingsDependencies interface {
	GetSettings(ctx context.Context) (service.Settings, error)
	UpdateSettings(ctx context.Context, in service.Settings) (service.Settings, error)
	Categories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) ([]string, error)
	RemoveCategory(ctx context.Context, name string) ([]string, error)
	ClearData(ctx context.Context) error
}

type settingsRequest struct {
	Language string `json:"language" validate:"omitempty,oneof=en es ca"`
	Emblem   string `json:"emblem"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// SettingsHandler handles settings requests.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

// HandleGet handles GET /settings requests.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.GetSettings(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleUpdate handles PUT /settings requests.
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, "api.update_settings", &req); err != nil {
		writeFailure(w, err)
		return
	}
	st, err := h.deps.UpdateSettings(r.Context(), service.Settings{Language: req.Language, Emblem: req.Emblem})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleCategories handles GET /settings/categories requests.
func (h *SettingsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.deps.Categories(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// HandleAddCategory handles POST /settings/categories requests.
func (h *SettingsHandler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(w, r, "api.add_category", &req); err != nil {
		writeFailure(w, err)
		return
	}
	cats, err := h.deps.AddCategory(r.Context(), req.Name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// HandleRemoveCategory handles DELETE /settings/categories/{name} requests.
func (h *SettingsHandler) HandleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	cats, err := h.deps.RemoveCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// HandleClearData handles DELETE /settings/data requests.
func (h *SettingsHandler) HandleClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ClearData(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
