package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/alexwhin/deptox-core/internal/pathutil"
	"github.com/alexwhin/deptox-core/internal/scancontroller"
	"github.com/alexwhin/deptox-core/internal/settingsstore"
	"github.com/alexwhin/deptox-core/internal/taxonomy"
)

// ScanProgress is a progress event streamed during scanning.
type ScanProgress struct {
	DirectoryCount int    `json:"directoryCount"`
	CurrentPath    string `json:"currentPath"`
}

// DirectoryEntry mirrors scancontroller.DirectoryEntry on the wire.
type DirectoryEntry struct {
	Path            string            `json:"path"`
	SizeBytes       int64             `json:"sizeBytes"`
	FileCount       int64             `json:"fileCount"`
	LastModifiedMs  int64             `json:"lastModifiedMs"`
	Category        taxonomy.Category `json:"category"`
	HasOnlySymlinks bool              `json:"hasOnlySymlinks"`
}

// ScanResult is the final result of a scan operation.
type ScanResult struct {
	Entries      []DirectoryEntry `json:"entries"`
	TotalSize    int64            `json:"totalSize"`
	ScanTimeMs   int64            `json:"scanTimeMs"`
	SkippedCount int              `json:"skippedCount"`
}

// RescanResult is the result of a rescan request.
type RescanResult struct {
	Exists bool            `json:"exists"`
	Entry  *DirectoryEntry `json:"entry,omitempty"`
}

// RescanParams holds the single path to re-measure.
type RescanParams struct {
	Path string `json:"path"`
}

func toWireEntry(e scancontroller.DirectoryEntry) DirectoryEntry {
	return DirectoryEntry{
		Path:            e.Path,
		SizeBytes:       e.SizeBytes,
		FileCount:       e.FileCount,
		LastModifiedMs:  e.LastModifiedMs,
		Category:        e.Category,
		HasOnlySymlinks: e.HasOnlySymlinks,
	}
}

func (h *Handler) handleScan(ctx context.Context, req Request, w *NDJSONWriter) {
	settings, err := settingsstore.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load settings, scanning with defaults")
		settings = settingsstore.Default()
	}

	done := h.server.scans.Start(scancontroller.Request{
		RootDirectory:     settings.RootDirectory,
		EnabledCategories: settings.EnabledCategorySet(),
		ExcludePatterns:   pathutil.ParseExcludePatterns(settings.ExcludePaths),
	}, func(s scancontroller.Stats) {
		if ctx.Err() != nil {
			return
		}
		_ = w.WriteProgress(req.ID, ScanProgress{DirectoryCount: s.DirectoryCount, CurrentPath: s.CurrentPath})
	}, func(e scancontroller.DirectoryEntry) {
		if ctx.Err() != nil {
			return
		}
		_ = w.WriteProgress(req.ID, toWireEntry(e))
	})

	// Wait for the outcome off the connection loop so a following "cancel"
	// request on the same connection is read while the scan runs.
	go func() {
		select {
		case result, ok := <-done:
			if ctx.Err() != nil {
				return
			}
			if !ok || result == nil {
				_ = w.WriteCancelled(req.ID)
				return
			}
			entries := make([]DirectoryEntry, len(result.Entries))
			for i, e := range result.Entries {
				entries[i] = toWireEntry(e)
			}
			_ = w.WriteResult(req.ID, ScanResult{
				Entries:      entries,
				TotalSize:    result.TotalSize,
				ScanTimeMs:   result.ScanTimeMs,
				SkippedCount: result.SkippedCount,
			})
		case <-ctx.Done():
			return
		}
	}()
}

func (h *Handler) handleCancel(req Request, w *NDJSONWriter) {
	h.server.scans.Cancel()
	_ = w.WriteResult(req.ID, map[string]string{"status": "cancelling"})
}

func (h *Handler) handleRescan(req Request, w *NDJSONWriter) {
	var params RescanParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			_ = w.WriteErrorMsg(req.ID, fmt.Sprintf("invalid params: %v", err))
			return
		}
	}

	entry, exists := scancontroller.Rescan(params.Path)
	if !exists {
		_ = w.WriteResult(req.ID, RescanResult{Exists: false})
		return
	}
	wire := toWireEntry(entry)
	_ = w.WriteResult(req.ID, RescanResult{Exists: true, Entry: &wire})
}

func (h *Handler) handleCategories(req Request, w *NDJSONWriter) {
	categories := taxonomy.All()
	infos := make([]CategoryInfo, len(categories))
	for i, c := range categories {
		infos[i] = CategoryInfo{ID: string(c), Label: c.Label()}
	}
	_ = w.WriteResult(req.ID, CategoriesResult{Categories: infos})
}

// CategoryInfo describes one dependency category.
type CategoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CategoriesResult is the result of a categories request.
type CategoriesResult struct {
	Categories []CategoryInfo `json:"categories"`
}
