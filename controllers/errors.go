package controllers

import (
	"errors"
	"log"

	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// writeServiceError maps the service error taxonomy onto HTTP. Anything
// unclassified is logged and returned as a 500.
func writeServiceError(c *gin.Context, err error) {
	var ve services.ValidationError
	var ce *services.ConflictError
	var nfe *services.NotFoundError

	switch {
	case errors.As(err, &ve):
		resp.BadRequest(c, ve.Error())
	case errors.As(err, &ce):
		resp.Conflict(c, ce.Message)
	case errors.As(err, &nfe):
		resp.NotFound(c, nfe.Error())
	case errors.Is(err, services.ErrPaymentUnavailable):
		resp.Unavailable(c, services.ErrPaymentUnavailable.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "not found")
	default:
		log.Printf("[http] internal error: %v", err)
		resp.ServerError(c, err)
	}
}
