package models

// ApiResponse is the envelope of every JSON response.
type ApiResponse struct {
	Message string      `json:"message"`
	Data    any         `json:"data,omitempty"`
	Error   bool        `json:"error,omitempty"`
	Meta    *Pagination `json:"meta,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
