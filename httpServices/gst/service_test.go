package gst

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"flag":true,"message":"ok","data":{"gstin":"27AABCU9603R1ZM","lgnm":"ACME LTD","tradeNam":"ACME","rgdt":"01/07/2017","ctb":"Public Limited Company","sts":"Active","stj":"Ward 1","pradr":{"addr":{"bno":"1","st":"MG Road","loc":"Fort","dst":"Mumbai","stcd":"Maharashtra","pncd":"400001"}}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	info, err := client.Lookup(context.Background(), "27AABCU9603R1ZM")
	require.NoError(t, err)

	assert.Equal(t, "/gstin/27AABCU9603R1ZM", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "ACME LTD", info.LegalName)
	assert.Equal(t, "400001", info.PrincipalAddr.Addr.Pincode)
	assert.Equal(t, "Fort", info.PrincipalAddr.Addr.Location)
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{"not found", http.StatusNotFound, `{}`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"flag false", http.StatusOK, `{"flag":false,"message":"invalid key"}`, false},
		{"bad json", http.StatusOK, `{`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k").Lookup(context.Background(), "27AABCU9603R1ZM")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, err == ErrNotFound)
		})
	}
}
