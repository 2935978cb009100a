package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"MediCare/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOptions(t *testing.T) *server.Options {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	isTest = true
	orig := startServer
	captured := &server.Options{}
	startServer = func(opts server.Options) error {
		*captured = opts
		return nil
	}
	t.Cleanup(func() {
		isTest = false
		startServer = orig
	})
	return captured
}

func TestRun_WiresServer(t *testing.T) {
	opts := captureOptions(t)

	require.NoError(t, run())

	assert.True(t, opts.MongoEnabled)
	assert.True(t, opts.WebServerEnabled)
	assert.False(t, opts.JobsEnabled)
	assert.False(t, opts.MigrationEnabled)

	assert.Nil(t, opts.JobsHandler())
	opts.MigrationHandler()

	r := gin.New()
	opts.WebServerPreHandler(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/patients", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRootCommand_Subcommands(t *testing.T) {
	opts := captureOptions(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate"})
	require.NoError(t, cmd.Execute())
	assert.False(t, opts.WebServerEnabled)
	assert.True(t, opts.MigrationEnabled)
	assert.NotNil(t, opts.MigrationHandler)

	cmd = newRootCmd()
	cmd.SetArgs([]string{"serve"})
	require.NoError(t, cmd.Execute())
	assert.True(t, opts.WebServerEnabled)
}

func TestRun_ConfigError(t *testing.T) {
	captureOptions(t)
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, run())
}
