package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/pkg/errors"
)

// Response is the JSON envelope of every non-streaming endpoint.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respond writes a success envelope.
func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.OK.Code,
		Message: "success",
		Data:    data,
	})
}

// respondMessage writes a success envelope with a custom message.
func respondMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.OK.Code,
		Message: message,
		Data:    data,
	})
}

// fail maps any error to its errno and writes the error envelope.
func fail(c *gin.Context, err error) {
	e := errors.FromError(err)
	c.JSON(e.HTTPStatus(), Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

// ownerHeader carries the owner identity resolved by the auth layer in
// front of this service.
const ownerHeader = "X-Owner-ID"

// ownerID extracts the owner identity, failing the request when absent.
func ownerID(c *gin.Context) (string, bool) {
	owner := c.GetHeader(ownerHeader)
	if owner == "" {
		fail(c, errors.ErrUnauthorized.WithMessage("missing "+ownerHeader+" header"))
		return "", false
	}
	return owner, true
}
