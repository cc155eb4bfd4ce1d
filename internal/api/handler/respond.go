package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/es2/countrysync/internal/api/middleware"
	"github.com/es2/countrysync/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// fail maps err to a status code and writes it as an ErrorResponse.
// domain.ErrNotFound becomes 404, anything else 500.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		middleware.GetLogger(c).WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// pathID parses a positive numeric path parameter, writing a 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Errorf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}
