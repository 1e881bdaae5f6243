package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/marketplace/grocery-api/internal/model"
)

func TestTokenIssuerRejectsOtherKind(t *testing.T) {
	iss := NewTokenIssuer("secret", time.Hour)
	s, err := iss.Issue(model.SubjectUser, 4, "")
	if err != nil {
		t.Fatal(err)
	}
	if id, err := iss.Verify(s.Token, model.SubjectUser); err != nil || id != 4 {
		t.Fatalf("verify user token: %d %v", id, err)
	}
	if _, err := iss.Verify(s.Token, model.SubjectAdmin); !errors.Is(err, ErrWrongSubject) {
		t.Fatalf("expected ErrWrongSubject, got %v", err)
	}
	if d := time.Until(s.ExpiresAt); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("unexpected expiry in %v", d)
	}
}

func TestDetectionClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(Detection{
			Status: "ok", UserID: req.User.ID,
			Objects: []DetectedObject{{Label: " Milk ", Score: 0.9}, {Label: "Bread", Score: 0.4}},
		})
	}))
	defer srv.Close()

	c := NewDetectionClient(srv.URL+"/", 2*time.Second)
	d, err := c.Detect(context.Background(), "http://cdn/x.png", 12)
	if err != nil {
		t.Fatal(err)
	}
	if d.UserID != 12 || d.FirstLabel() != "Milk" {
		t.Fatalf("unexpected detection %+v", d)
	}
}

func TestDetectionClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewDetectionClient(srv.URL, time.Second).Detect(context.Background(), "u", 1); err == nil {
		t.Fatal("expected error for 503")
	}
	var empty *Detection
	if empty.FirstLabel() != "" {
		t.Fatal("nil detection should have no label")
	}
}
