package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/twitclone/internal/service"
)

// respond writes a success envelope: body plus result=true.
func respond(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["result"] = true
	c.JSON(status, body)
}

// fail writes the error envelope with a status derived from the error kind.
// Internal details are attached to the gin context for the request log and
// never sent to the client.
func fail(c *gin.Context, err error) {
	kind := service.KindOf(err)

	msg := "internal server error"
	var se *service.Error
	if errors.As(err, &se) && kind != service.KindInternal {
		msg = se.Message
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(kind), gin.H{
		"result":        false,
		"error_type":    string(kind),
		"error_message": msg,
	})
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string) error {
	return &service.Error{Kind: service.KindInvalidArgument, Message: msg}
}
