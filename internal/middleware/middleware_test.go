package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad signature"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return s.claims, nil
}

type recordingObserver struct {
	paths []string
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.paths = append(r.paths, method+" "+path)
}

func newRouter(role models.UserRole, logger *zap.Logger, obs RequestObserver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(obs), WithResponseMeta())
	auth := JWT(stubValidator{claims: &models.JWTClaims{UserID: "user-1", Role: role}})
	r.POST("/documents/:id", auth, RequireRoles(Staff...), Audit(logger, "deactivate", "document"), func(c *gin.Context) {
		SetCacheHit(c, false)
		c.JSON(http.StatusOK, ExtractMeta(c))
	})
	return r
}

func TestJWTRejectsMissingAndBadTokens(t *testing.T) {
	r := newRouter(models.RoleAdmin, nil, nil)

	for _, header := range []string{"", "Token good", "Bearer nope", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/documents/doc-1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestRequireRolesForbidsParents(t *testing.T) {
	r := newRouter(models.RoleParent, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthorisedRequestIsAuditedAndObserved(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	obs := &recordingObserver{}
	r := newRouter(models.RoleCoach, zap.New(core), obs)

	req := httptest.NewRequest(http.MethodPost, "/documents/doc-1", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_hit":false`)
	assert.Contains(t, w.Body.String(), `"processing_time_ms"`)

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "deactivate", fields["action"])
	assert.Equal(t, "doc-1", fields["resource_id"])
	assert.Equal(t, "user-1", fields["user_id"])

	assert.Equal(t, []string{"POST /documents/:id"}, obs.paths)
}
