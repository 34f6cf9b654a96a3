package dto

// HistoryQuery filtros de GET /history (y del stream de historial).
type HistoryQuery struct {
	Action string `query:"action"`
	Search string `query:"search"`
	PageRequest
}

// HistoryListResponse página del historial, del más reciente al más antiguo.
type HistoryListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
