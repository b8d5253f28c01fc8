package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// MessageResponse is a body that only carries a human readable message
type MessageResponse struct {
	Message string `json:"message"`
}
