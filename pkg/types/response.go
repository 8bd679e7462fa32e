package types

// ErrorBody is the body of catalog and content failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the body of every submission response, success or failure.
type MessageBody struct {
	Message string `json:"message"`
}
