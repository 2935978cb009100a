package util

// ExposeErrors controls whether the cause of a failure is echoed back in the
// "error" field. It is switched off in production.
var ExposeErrors = true

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func MessageResponse(msg string, data interface{}) Response {
	return Response{Success: true, Message: msg, Data: data}
}

func ListResponse(count int, data interface{}) Response {
	return Response{Success: true, Count: &count, Data: data}
}

func TokenResponse(msg, token string, data interface{}) Response {
	return Response{Success: true, Message: msg, Token: token, Data: data}
}

/*
* Client errors carry their own message
* Unexpected failures get a generic message and the cause only outside production
 */
func FailedResponse(err error) Response {
	resp := Response{Success: false, Message: SOMETHING_WENT_WRONG}
	if err == nil {
		return resp
	}
	var appErr *AppError
	if asAppError(err, &appErr) {
		resp.Message = appErr.Message
		if appErr.Err != nil && ExposeErrors {
			resp.Error = appErr.Err.Error()
		}
		return resp
	}
	if ExposeErrors {
		resp.Error = err.Error()
	}
	return resp
}
