package dto

// BaseResponse is the envelope returned by every mutating endpoint.
type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	RefID   string      `json:"ref_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return &BaseResponse{Success: true, Message: message, Data: data}
}

func NewFailedResponse(message string) *BaseResponse {
	return &BaseResponse{Success: false, Message: message}
}
