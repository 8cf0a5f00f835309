package poldoserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive int64 identifier from a path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s %q is not a valid identifier", name, raw))
		return 0, false
	}
	return id, true
}

// parseIntParam reads a non-negative int from a path parameter.
func parseIntParam(c *gin.Context, name string) (int, bool) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s %q is not a valid number", name, raw))
		return 0, false
	}
	return n, true
}

// parseIntQuery reads a non-negative int from an already-extracted query value.
func parseIntQuery(c *gin.Context, name, raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s %q is not a valid number", name, raw))
		return 0, false
	}
	return n, true
}
