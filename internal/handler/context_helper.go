package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/middleware"
	"github.com/noah-isme/fortidesk-api/internal/service"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func actorID(c *gin.Context) string {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// parseDate reads an optional YYYY-MM-DD query parameter.
func parseDate(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, appErrors.NewValidation("invalid date", map[string]string{key: "must be YYYY-MM-DD"})
	}
	return &t, nil
}

func parsePositiveInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, appErrors.NewValidation("invalid number", map[string]string{key: "must be a positive integer"})
	}
	return n, nil
}

// parseBool reads an optional true/false query parameter.
func parseBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, appErrors.NewValidation("invalid flag", map[string]string{key: "must be true or false"})
	}
	return &v, nil
}

// parseWindow reads an optional non-negative day count; nil when absent.
func parseWindow(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, appErrors.NewValidation("invalid number", map[string]string{key: "must be zero or greater"})
	}
	return &n, nil
}

// complianceQuery reads the shared date and lookahead parameters.
func complianceQuery(c *gin.Context) (service.ComplianceQuery, error) {
	var q service.ComplianceQuery
	date, err := parseDate(c, "date")
	if err != nil {
		return q, err
	}
	if date != nil {
		q.Date = *date
	}
	if q.LookaheadDays, err = parseWindow(c, "lookahead"); err != nil {
		return q, err
	}
	return q, nil
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
