// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer serves body with statusCode on /summary.json.
func newTestServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summary.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const summaryBody = `{
  "page": {"name": "HostPress", "url": "https://status.hostpress.example", "status": "HASISSUES"},
  "activeIncidents": [
    {"id": "inc1", "name": "DNS delays", "started": "2026-02-01T10:00:00Z", "status": "INVESTIGATING", "impact": "MINOR", "url": "https://status.hostpress.example/inc1"}
  ],
  "activeMaintenances": [
    {"id": "m1", "name": "Storage upgrade", "start": "2026-02-03T02:00:00Z", "status": "NOTSTARTEDYET", "duration": 60, "url": "https://status.hostpress.example/m1"}
  ]
}`

func TestSummary(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, summaryBody)

	s, err := NewClient(srv.URL).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Name != "HostPress" || s.State != StateHasIssues {
		t.Errorf("page = %q/%q, want HostPress/HASISSUES", s.Name, s.State)
	}
	if s.Operational() {
		t.Error("expected not operational")
	}
	if len(s.Incidents) != 1 || s.Incidents[0].Name != "DNS delays" || s.Incidents[0].Impact != "MINOR" {
		t.Errorf("incidents = %+v", s.Incidents)
	}
	if s.Incidents[0].Started.Day() != 1 {
		t.Errorf("started = %v", s.Incidents[0].Started)
	}
	if len(s.Maintenances) != 1 || s.Maintenances[0].Duration != 60 {
		t.Errorf("maintenances = %+v", s.Maintenances)
	}
}

func TestSummaryAllUp(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"page":{"name":"HostPress","status":"UP"}}`)

	s, err := NewClient(srv.URL).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !s.Operational() {
		t.Error("expected operational")
	}
	if s.Incidents == nil || s.Maintenances == nil {
		t.Error("empty lists must not be nil")
	}
}

func TestSummaryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status 500"},
		{"bad json", http.StatusOK, "{not json", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)
			_, err := NewClient(srv.URL).Summary(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestSummaryNotConfigured(t *testing.T) {
	_, err := NewClient("").Summary(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}

	var nilClient *Client
	if _, err := nilClient.Summary(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("nil client error = %v, want ErrNotConfigured", err)
	}
}

func TestUnknown(t *testing.T) {
	s := Unknown()
	if s.State != StateUnknown || s.Operational() {
		t.Errorf("Unknown() = %+v", s)
	}
}
