package server

import (
	"net/http"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	s := New(":0", http.NotFoundHandler(), Timeouts{})
	if s.ReadTimeout != defaultRead || s.WriteTimeout != defaultWrite || s.IdleTimeout != defaultIdle {
		t.Fatalf("defaults not applied: %v %v %v", s.ReadTimeout, s.WriteTimeout, s.IdleTimeout)
	}
	if s.ReadHeaderTimeout != s.ReadTimeout {
		t.Fatalf("header timeout %v", s.ReadHeaderTimeout)
	}
}

func TestNew_Overrides(t *testing.T) {
	s := New(":0", http.NotFoundHandler(), Timeouts{Read: time.Second, Write: 2 * time.Second, Idle: 3 * time.Second})
	if s.ReadTimeout != time.Second || s.WriteTimeout != 2*time.Second || s.IdleTimeout != 3*time.Second {
		t.Fatalf("overrides lost: %v %v %v", s.ReadTimeout, s.WriteTimeout, s.IdleTimeout)
	}
}
