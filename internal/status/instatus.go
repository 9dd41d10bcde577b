// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package status reads the public status summary published by Instatus.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Page states reported by Instatus.
const (
	StateUp          = "UP"
	StateHasIssues   = "HASISSUES"
	StateMaintenance = "UNDERMAINTENANCE"
	// StateUnknown is used when the summary cannot be fetched.
	StateUnknown = "UNKNOWN"
)

// ErrNotConfigured is returned when no status page URL is set.
var ErrNotConfigured = errors.New("status page not configured")

// Summary is the status page overview.
type Summary struct {
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	State        string        `json:"state"`
	Incidents    []Incident    `json:"incidents"`
	Maintenances []Maintenance `json:"maintenances"`
}

// Operational reports whether all systems are up.
func (s *Summary) Operational() bool {
	return s.State == StateUp
}

// Incident is an ongoing incident.
type Incident struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Impact  string    `json:"impact"`
	Started time.Time `json:"started"`
	URL     string    `json:"url"`
}

// Maintenance is an ongoing or scheduled maintenance window.
type Maintenance struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Start    time.Time `json:"start"`
	Duration int       `json:"duration_minutes"`
	URL      string    `json:"url"`
}

// Unknown returns the summary used when the provider cannot be reached.
func Unknown() *Summary {
	return &Summary{State: StateUnknown, Incidents: []Incident{}, Maintenances: []Maintenance{}}
}

// Client fetches summaries from an Instatus page, e.g.
// https://hostpress.instatus.com.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the status page at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Summary fetches the current status summary.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	if c == nil || c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/summary.json", nil)
	if err != nil {
		return nil, fmt.Errorf("instatus request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instatus http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("instatus read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instatus API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result instatusSummary
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("instatus unmarshal: %w", err)
	}
	return result.toSummary(), nil
}

// --- Instatus summary.json types ---
// Field order matches Incident and Maintenance so they convert directly.

type instatusPage struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

type instatusIncident struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Impact  string    `json:"impact"`
	Started time.Time `json:"started"`
	URL     string    `json:"url"`
}

type instatusMaintenance struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Start    time.Time `json:"start"`
	Duration int       `json:"duration"`
	URL      string    `json:"url"`
}

type instatusSummary struct {
	Page               instatusPage          `json:"page"`
	ActiveIncidents    []instatusIncident    `json:"activeIncidents"`
	ActiveMaintenances []instatusMaintenance `json:"activeMaintenances"`
}

func (r instatusSummary) toSummary() *Summary {
	s := &Summary{
		Name:         r.Page.Name,
		URL:          r.Page.URL,
		State:        r.Page.Status,
		Incidents:    make([]Incident, 0, len(r.ActiveIncidents)),
		Maintenances: make([]Maintenance, 0, len(r.ActiveMaintenances)),
	}
	if s.State == "" {
		s.State = StateUnknown
	}
	for _, i := range r.ActiveIncidents {
		s.Incidents = append(s.Incidents, Incident(i))
	}
	for _, m := range r.ActiveMaintenances {
		s.Maintenances = append(s.Maintenances, Maintenance(m))
	}
	return s
}
