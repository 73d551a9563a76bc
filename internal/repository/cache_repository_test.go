package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	var dest map[string]string

	assert.ErrorIs(t, repo.Get(context.Background(), "dash:compliance", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "dash:compliance", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "dash:*"))
}
