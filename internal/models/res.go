package models

type ApiResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Page       int         `json:"page,omitempty"`
	Limit      int         `json:"limit,omitempty"`
	Total      int         `json:"total,omitempty"`
	TotalPages int         `json:"total_pages,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func ValidationResponse(err string, details interface{}) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
		Details: details,
	}
}

func PaginatedResponse[T any](p Page[T]) ApiResponse {
	return ApiResponse{
		Success:    true,
		Data:       p.Items,
		Page:       p.Page,
		Limit:      p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
