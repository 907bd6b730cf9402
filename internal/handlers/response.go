package handlers

import "drawbase/internal/response"

// Re-export response functions for convenience
var (
	SendSuccess          = response.SendSuccess
	SendError            = response.SendError
	SendSuccessNoData    = response.SendSuccessNoData
	SendServiceError     = response.SendServiceError
	SendPaginatedSuccess = response.SendPaginatedSuccess
)
