package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// GetIDParam parses a numeric path parameter.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	value := ctx.Param(name)

	if value == "" {
		return 0, errors.New("missing " + name)
	}

	parsed, err := strconv.ParseUint(value, 10, 32)

	if err != nil {
		return 0, errors.New("invalid " + name)
	}

	return uint(parsed), nil
}

// GetPagination reads page/per_page query parameters and returns
// limit/offset with sane bounds.
func GetPagination(ctx *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(ctx.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))

	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}

	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return perPage, (page - 1) * perPage
}

// GetUintQuery parses an optional numeric query parameter; nil when absent.
func GetUintQuery(ctx *gin.Context, name string) (*uint, error) {
	value := ctx.Query(name)

	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 32)

	if err != nil {
		return nil, errors.New("invalid " + name)
	}

	id := uint(parsed)
	return &id, nil
}
