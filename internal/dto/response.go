package dto

// Response is the envelope every endpoint answers with.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func OK(status int, data interface{}, message string) Response {
	return Response{StatusCode: status, Data: data, Message: message, Success: status < 400}
}

func Error(status int, message string) Response {
	return Response{StatusCode: status, Data: nil, Message: message, Success: false}
}
