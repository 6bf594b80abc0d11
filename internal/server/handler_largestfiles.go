package server

import (
	"encoding/json"
	"fmt"

	"github.com/alexwhin/deptox-core/internal/largestfiles"
)

// LargestFilesParams holds the directory to inspect.
type LargestFilesParams struct {
	Path string `json:"path"`
}

// FileEntry mirrors largestfiles.File on the wire.
type FileEntry struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
}

// LargestFilesResult is the result of a largestFiles request.
type LargestFilesResult struct {
	Files         []FileEntry `json:"files"`
	DirectoryPath string      `json:"directoryPath"`
}

func (h *Handler) handleLargestFiles(req Request, w *NDJSONWriter) {
	var params LargestFilesParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("invalid params: %v", err))
			return
		}
	}

	result, err := largestfiles.Find(params.Path)
	if err != nil {
		_ = w.WriteErrorMsg(req.ID, err.Error())
		return
	}

	files := make([]FileEntry, len(result.Files))
	for i, f := range result.Files {
		files[i] = FileEntry{Path: f.Path, SizeBytes: f.SizeBytes}
	}
	_ = w.WriteResult(req.ID, LargestFilesResult{Files: files, DirectoryPath: result.DirectoryPath})
}
