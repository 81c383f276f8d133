package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		allowed    []string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{name: "listed origin", allowed: []string{"http://app.test"}, origin: "http://app.test", wantOrigin: "http://app.test", wantStatus: http.StatusTeapot},
		{name: "unlisted origin", allowed: []string{"http://app.test"}, origin: "http://evil.test", wantOrigin: "", wantStatus: http.StatusTeapot},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://any.test", wantOrigin: "http://any.test", wantStatus: http.StatusTeapot},
		{name: "preflight", allowed: []string{"*"}, origin: "http://any.test", preflight: true, wantOrigin: "http://any.test", wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/banks", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			}
			rec := httptest.NewRecorder()

			CORSMiddleware(tt.allowed)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
