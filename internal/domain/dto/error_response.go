package dto

// ErrorResponse is the body of every non-2xx response.
//
// Example:
//
//	{"error": "No dividends data available"}
type ErrorResponse struct {
	Message string `json:"error" example:"No dividends data available"`
}

// Error implements the error interface so an ErrorResponse can travel through c.Error().
func (e ErrorResponse) Error() string {
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional cause.
//
// Behavior:
//   - message only: the message is returned as-is.
//   - err only: the raw error text is surfaced (used for upstream failures).
//   - both: "message: err".
func NewErrorResponse(message string, err error) ErrorResponse {
	switch {
	case err == nil:
		return ErrorResponse{Message: message}
	case message == "":
		return ErrorResponse{Message: err.Error()}
	default:
		return ErrorResponse{Message: message + ": " + err.Error()}
	}
}
