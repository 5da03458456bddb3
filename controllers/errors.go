package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danilofelipe32/nutriscan100/models"
)

// abortWithError maps the shared error taxonomy onto HTTP statuses: caller
// mistakes are 400, upstream AI trouble is 502, storage trouble is 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrGateway),
		errors.Is(err, models.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
