package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/njtax/internal/calculation"
)

// respondError maps calculation errors onto client and server responses.
func (s *Server) respondError(c *gin.Context, err error) {
	requestID := GetRequestID(c)

	var ve *calculation.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field, "requestId": requestID})
		return
	}

	var nf *calculation.RateNotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error(), "county": nf.County, "requestId": requestID})
		return
	}

	s.logger.Errorf("request %s failed: %v", requestID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "requestId": requestID})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message, "requestId": GetRequestID(c)})
}
