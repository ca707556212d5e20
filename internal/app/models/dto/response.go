package dto

// APIResponse wraps every successful response body.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse builds a success envelope around data.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// NewMessageResponse builds a success envelope with only a message.
func NewMessageResponse(message string) APIResponse {
	return APIResponse{Success: true, Message: message}
}
