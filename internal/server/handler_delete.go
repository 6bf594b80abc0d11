package server

import (
	"encoding/json"
	"fmt"

	"github.com/alexwhin/deptox-core/internal/deleter"
	"github.com/alexwhin/deptox-core/internal/settingsstore"
)

// DeleteParams holds parameters for a single-directory delete.
type DeleteParams struct {
	Path string `json:"path"`
}

// DeleteAllParams holds parameters for a batch delete.
type DeleteAllParams struct {
	Paths []string `json:"paths"`
}

// DeleteResult mirrors deleter.Result on the wire.
type DeleteResult struct {
	Success   bool   `json:"success"`
	Path      string `json:"path"`
	SizeFreed int64  `json:"sizeFreed"`
}

func toWireDeleteResult(r deleter.Result) DeleteResult {
	return DeleteResult{Success: r.Success, Path: r.Path, SizeFreed: r.SizeFreed}
}

func (h *Handler) handleDelete(req Request, w *NDJSONWriter) {
	var params DeleteParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("invalid params: %v", err))
			return
		}
	}

	settings, err := settingsstore.Load()
	if err != nil {
		_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("failed to load settings: %v", err))
		return
	}

	result := deleter.DeleteOne(params.Path, settings.PermanentDelete)
	_ = w.WriteResult(req.ID, toWireDeleteResult(result))
}

func (h *Handler) handleDeleteAll(req Request, w *NDJSONWriter) {
	if !h.server.busy.CompareAndSwap(false, true) {
		_ = w.WriteErrorMsg(req.ID, "another operation is in progress")
		return
	}
	defer h.server.busy.Store(false)

	var params DeleteAllParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("invalid params: %v", err))
			return
		}
	}

	settings, err := settingsstore.Load()
	if err != nil {
		_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("failed to load settings: %v", err))
		return
	}

	results := deleter.DeleteAll(params.Paths, settings.PermanentDelete)
	wire := make([]DeleteResult, len(results))
	for i, r := range results {
		wire[i] = toWireDeleteResult(r)
	}
	_ = w.WriteResult(req.ID, wire)
}
