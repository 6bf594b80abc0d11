package server

import (
	"encoding/json"
	"fmt"

	"github.com/alexwhin/deptox-core/internal/settingsstore"
)

func (h *Handler) handleGetSettings(req Request, w *NDJSONWriter) {
	settings, err := settingsstore.Load()
	if err != nil {
		_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("failed to load settings: %v", err))
		return
	}
	_ = w.WriteResult(req.ID, settings)
}

func (h *Handler) handleSaveSettings(req Request, w *NDJSONWriter) {
	var settings settingsstore.Settings
	if err := json.Unmarshal(req.Params, &settings); err != nil {
		_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("invalid params: %v", err))
		return
	}

	if err := settingsstore.Save(settings); err != nil {
		_ = w.WriteErrorMsg(req.ID, err.Error())
		return
	}
	_ = w.WriteResult(req.ID, map[string]string{"status": "saved"})
}

func (h *Handler) handleResetSettings(req Request, w *NDJSONWriter) {
	if err := settingsstore.Reset(); err != nil {
		_ = w.WriteErrorMsg(req.ID, err.Error())
		return
	}
	_ = w.WriteResult(req.ID, map[string]string{"status": "reset"})
}
