package response

import "net/http"

// PaginationMeta describes one page of a list response.
type PaginationMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func SendPaginatedSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}, meta PaginationMeta) {
	write(w, statusCode, Envelope{Status: "success", Message: message, Data: data, Meta: meta})
}
