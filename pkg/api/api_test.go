// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_RegisterRoutes(t *testing.T) {
	a := New(Config{ListeningAddress: ":0"}).(*api)
	err := a.RegisterRoutes(t.Context(),
		Route{Path: "/v1/ok", Method: http.MethodGet, Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
		Route{Path: "/any", Method: "*", Handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}},
	)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "registered route", method: http.MethodGet, path: "/v1/ok", want: http.StatusOK},
		{name: "wrong method", method: http.MethodPost, path: "/v1/ok", want: http.StatusMethodNotAllowed},
		{name: "wildcard method", method: http.MethodDelete, path: "/any", want: http.StatusAccepted},
		{name: "unknown route", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, http.NoBody))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPI_RegisterRoutes_Invalid(t *testing.T) {
	a := New(Config{ListeningAddress: ":0"})
	assert.Error(t, a.RegisterRoutes(t.Context(), Route{Path: "/v1", Method: http.MethodGet}))
}

func TestAPI_RunAndShutdown(t *testing.T) {
	a := New(Config{ListeningAddress: "127.0.0.1:0"})
	require.NoError(t, a.RegisterRoutes(t.Context()))

	cErr := make(chan error, 1)
	go func() { cErr <- a.Run(t.Context()) }()

	// give the server a moment to start listening
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, a.Shutdown(t.Context()))

	select {
	case err := <-cErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}

func TestAPI_Shutdown_ReturnsContextError(t *testing.T) {
	a := New(Config{ListeningAddress: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.ErrorIs(t, a.Shutdown(ctx), context.Canceled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "disabled", config: Config{}},
		{name: "valid address", config: Config{ListeningAddress: ":8080"}},
		{name: "missing port", config: Config{ListeningAddress: "localhost"}, wantErr: ErrInvalidAddress},
		{
			name:    "tls without key",
			config:  Config{ListeningAddress: ":8443", Tls: TLSConfig{Enabled: true, CertPath: "cert.pem"}},
			wantErr: ErrInvalidTLSConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
