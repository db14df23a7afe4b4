package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter. Returns 0 when missing or not a
// number; handlers treat that as a validation error.
func pathID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// queryID parses a numeric query parameter. Returns 0 when absent or not a
// number; list handlers treat 0 as "not scoped by this parameter".
func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
