package models

import "time"

// KeywordListResponse contains the current blocked keywords in stored order.
type KeywordListResponse struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// KeywordMutationResponse reports whether an add or remove changed the set.
type KeywordMutationResponse struct {
	Keyword string `json:"keyword"`
	Changed bool   `json:"changed"`
}

// TransferResponse reports an import or export result code and its message.
type TransferResponse struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// ExportPathResponse carries the last used export path hint.
type ExportPathResponse struct {
	Path string `json:"path"`
}

// PresentationResponse reports the ranking decision for a thread.
type PresentationResponse struct {
	ThreadID    int64 `json:"thread_id"`
	Presentable bool  `json:"presentable"`
	Rank        int   `json:"rank"`
}

// HealthResponse contains component health for the service.
type HealthResponse struct {
	Database  string    `json:"database"`
	Inventory string    `json:"inventory"`
	CheckedAt time.Time `json:"checked_at"`
}
