package middleware

import (
	"errors"

	restful "github.com/emicklei/go-restful/v3"
)

var (
	ErrEmptyQuery  = errors.New("query must not be empty")
	ErrInvalidTopK = errors.New("top_k must be between 1 and 50")
)

type ErrorResponse struct {
	Error string `json:"error" description:"Error message"`
	Code  int    `json:"code" description:"HTTP status code"`
}

func HandleError(resp *restful.Response, err error, status int) {
	resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error: err.Error(),
		Code:  status,
	})
}
