package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type authServiceMock struct {
	resp *models.LoginResponse
	err  error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return m.resp, m.err
}

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{resp: &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"coach@club.test","password":"secret123"}`))
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &resp))
	assert.Equal(t, "token", resp.AccessToken)
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"coach@club.test","password":"wrong"}`))
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/login", []byte(`not json`))
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
