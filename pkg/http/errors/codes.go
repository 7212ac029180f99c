package errors

// Fixed client-facing messages. The cause of a failure never leaks into the body.
const (
	MsgBadRequest    = "Bad request error"
	MsgNotFound      = "Resource not found"
	MsgUnprocessable = "unprocessable entity"
	MsgInternalError = "An error has occured, please try again"
)
