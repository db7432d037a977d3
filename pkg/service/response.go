package service

import (
	"fmt"
	"net/http"

	"github.com/joeydtaylor/steeze-host/pkg/codec"
)

const contentTypeJSON = "application/json"

// Response is the envelope every handler returns. Empty Content means no body.
type Response struct {
	Success      bool
	Content      string
	HandlerName  string
	ErrorMessage string
}

type errorBody struct {
	Response string `json:"response"`
}

// NewResponse sets status, description, content type and a zero content
// length on the context's raw response and returns the envelope.
func NewResponse(c *Context, handlerName string, success bool, statusCode int, jsonContent string) *Response {
	raw := c.Response
	raw.SetContentType(contentTypeJSON)
	raw.ContentLength = 0
	raw.SetStatus(statusCode)
	return &Response{
		Success:     success,
		Content:     jsonContent,
		HandlerName: handlerName,
	}
}

func SuccessResponse(c *Context, handlerName string, statusCode int, jsonContent string) *Response {
	return NewResponse(c, handlerName, true, statusCode, jsonContent)
}

// ErrorResponse wraps errorMessage as {"response": "<message>"}.
func ErrorResponse(c *Context, handlerName string, statusCode int, errorMessage string) *Response {
	content := ""
	if errorMessage != "" {
		b, err := codec.JSONStrict.Marshal(errorBody{Response: errorMessage})
		if err == nil {
			content = string(b)
		}
	}
	resp := NewResponse(c, handlerName, false, statusCode, content)
	resp.ErrorMessage = errorMessage
	return resp
}

func BadRequest(c *Context, handlerName, errorMessage string) *Response {
	return ErrorResponse(c, handlerName, http.StatusBadRequest, errorMessage)
}

func InternalError(c *Context, handlerName, errorMessage string) *Response {
	return ErrorResponse(c, handlerName, http.StatusInternalServerError, errorMessage)
}

// InternalErrorFrom renders err's full description into the message.
func InternalErrorFrom(c *Context, handlerName string, err error) *Response {
	msg := ""
	if err != nil {
		msg = fmt.Sprintf("%+v", err)
	}
	return InternalError(c, handlerName, msg)
}

// JSONResponse marshals v compactly into a 200 envelope.
func JSONResponse(c *Context, handlerName string, v any) *Response {
	b, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		return InternalErrorFrom(c, handlerName, err)
	}
	return SuccessResponse(c, handlerName, http.StatusOK, string(b))
}
