package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"shopadmin/internal/domain"
	"shopadmin/internal/query"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BindJSONOrError ensures body is present, parsable and passes its binding rules.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "bad_request", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "bad_request", "request body is empty", nil)
			return false
		}
		respondBindError(c, err)
		return false
	}
	return true
}

// pathID reads a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		respondError(c, http.StatusBadRequest, "bad_request", name+" must be a positive integer", nil)
		return 0, false
	}
	return uint(n), true
}

// listParams parses the shared page, size and order query values.
func (h *Handlers) listParams(c *gin.Context) (query.Directive, query.PageRequest, bool) {
	page, err := query.ParsePageRequest(c.Query("page"), c.Query("size"), h.Paging.DefaultSize, h.Paging.MaxSize)
	if err != nil {
		h.RespondDomainError(c, err)
		return nil, query.PageRequest{}, false
	}
	order, err := query.ParseOrder(c.Query("order"))
	if err != nil {
		h.RespondDomainError(c, err)
		return nil, query.PageRequest{}, false
	}
	return order, page, true
}

func queryUint(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return 0, domain.ValidationError{Field: name, Msg: "must be a positive integer"}
	}
	return uint(n), nil
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.ValidationError{Field: name, Msg: "must be a decimal number", Err: err}
	}
	return &d, nil
}

func respondPage[T any](c *gin.Context, p query.Page[T]) {
	c.JSON(http.StatusOK, p.Envelope())
}
