package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://factchain.example", "chrome-extension://*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		origin     string
		method     string
		wantAllow  string
		wantStatus int
	}{
		{origin: "https://factchain.example", method: http.MethodGet, wantAllow: "https://factchain.example", wantStatus: http.StatusTeapot},
		{origin: "chrome-extension://abcdef", method: http.MethodGet, wantAllow: "chrome-extension://abcdef", wantStatus: http.StatusTeapot},
		{origin: "https://evil.example", method: http.MethodGet, wantAllow: "", wantStatus: http.StatusTeapot},
		{origin: "chrome-extension://abcdef", method: http.MethodOptions, wantAllow: "chrome-extension://abcdef", wantStatus: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.origin+" "+tc.method, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/mint/notes", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantAllow)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
