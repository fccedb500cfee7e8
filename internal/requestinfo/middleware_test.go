package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func serve(req *http.Request) (*RequestInfo, *httptest.ResponseRecorder) {
	var got *RequestInfo
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})
	rr := httptest.NewRecorder()
	Enrich(next).ServeHTTP(rr, req)
	return got, rr
}

func TestEnrich_MintsID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	info, rr := serve(req)

	if info == nil {
		t.Fatal("RequestInfo not attached")
	}
	if _, err := uuid.Parse(info.ID); err != nil {
		t.Fatalf("id %q is not a UUID: %v", info.ID, err)
	}
	if rr.Header().Get(HeaderRequestID) != info.ID {
		t.Fatalf("response header = %q, want %q", rr.Header().Get(HeaderRequestID), info.ID)
	}
	if info.ClientIP.String() != "192.0.2.1" { // httptest default RemoteAddr
		t.Fatalf("client ip = %v", info.ClientIP)
	}
}

func TestEnrich_ReusesInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	info, _ := serve(req)
	if info.ID != "abc-123" {
		t.Fatalf("id = %q", info.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	info, _ = serve(req)
	if len(info.ID) > maxInboundID {
		t.Fatalf("oversized inbound id kept")
	}
}

func TestClientIP_Forwarded(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "garbage, 203.0.113.9, 10.0.0.1")
	if ip := clientIP(req); ip.String() != "203.0.113.9" {
		t.Fatalf("ip = %v", ip)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "198.51.100.4")
	if ip := clientIP(req); ip.String() != "198.51.100.4" {
		t.Fatalf("ip = %v", ip)
	}
}

func TestID_NilSafe(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ID(req.Context()) != "" {
		t.Fatal("expected empty id without middleware")
	}
}
