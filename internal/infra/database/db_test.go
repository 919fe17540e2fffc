package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPoolRejectsMalformedURL(t *testing.T) {
	db, err := OpenPool(context.Background(), "postgres://user@db.internal:notaport/cpghub", DefaultPoolSettings())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "invalid database URL")
}

func TestOpenPoolFailsWhenServerIsUnreachable(t *testing.T) {
	settings := DefaultPoolSettings()
	settings.PingTimeout = 500 * time.Millisecond

	db, err := OpenPool(context.Background(), "postgres://user@127.0.0.1:1/cpghub?sslmode=disable&connect_timeout=1", settings)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping database")
}

func TestDefaultPoolSettings(t *testing.T) {
	s := DefaultPoolSettings()
	assert.Equal(t, 4, s.MaxOpen)
	assert.Equal(t, 2, s.MaxIdle)
	assert.Equal(t, 5*time.Second, s.PingTimeout)
}
