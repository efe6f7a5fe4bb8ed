// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

/*
Package cloudflare provides a minimal REST client for the Cloudflare v4 API.

It covers exactly the surface Emailkuy needs: zone listing/resolution and
Email Routing rule management. The client is a deliberate pass-through —
no retries, no local state — so that the Postgres mirror remains the only
source of local truth.

# Authentication

Every request carries a bearer token supplied via configuration. The token
is never logged and never embedded in error messages returned to clients.
*/
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
)

// requestTimeout bounds every upstream call independently of the caller's context.
const requestTimeout = 10 * time.Second

// # Wire Types

// Zone is a Cloudflare DNS zone as returned by the /zones endpoints.
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// RoutingRule is a remote Email Routing rule.
type RoutingRule struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// apiEnvelope is the standard Cloudflare v4 response wrapper.
type apiEnvelope struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result json.RawMessage `json:"result"`
}

// ruleMatcher and ruleAction describe the single matcher/action pair Emailkuy
// creates: literal match on the destination address, forward to one mailbox.
type ruleMatcher struct {
	Type  string `json:"type"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type ruleAction struct {
	Type  string   `json:"type"`
	Value []string `json:"value"`
}

type createRuleRequest struct {
	Enabled  bool          `json:"enabled"`
	Name     string        `json:"name"`
	Matchers []ruleMatcher `json:"matchers"`
	Actions  []ruleAction  `json:"actions"`
}

// # Client

// Client calls the Cloudflare v4 REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a Cloudflare API client.
//
// # Parameters
//   - baseURL: API base, e.g. "https://api.cloudflare.com/client/v4".
//   - token: Bearer token with Zone.Read and Email Routing edit permissions.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		token:      token,
	}
}

/*
ListZones returns all active zones visible to the API token.

Parameters:
  - context: context.Context

Returns:
  - []Zone: Active zones
  - error: apperr.BadGateway on upstream failure
*/
func (client *Client) ListZones(context context.Context) ([]Zone, error) {
	var zones []Zone
	err := client.do(context, http.MethodGet, "/zones?status=active&per_page=50", nil, &zones)
	if err != nil {
		return nil, err
	}
	return zones, nil
}

/*
GetZone resolves a single zone by its ID.

Parameters:
  - context: context.Context
  - zoneID: string

Returns:
  - *Zone: The resolved zone
  - error: apperr.BadGateway on upstream failure
*/
func (client *Client) GetZone(context context.Context, zoneID string) (*Zone, error) {
	zone := &Zone{}
	err := client.do(context, http.MethodGet, "/zones/"+zoneID, nil, zone)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

/*
CreateRoutingRule creates a literal-match forward rule on the given zone.

Description: Matches mail sent to fullEmail and forwards it to destination.
The destination address must already be verified in Cloudflare.

Parameters:
  - context: context.Context
  - zoneID: string
  - fullEmail: string (complete alias address, e.g. "sales@example.com")
  - destination: string (verified forwarding target)
  - name: string (operator-facing rule label)

Returns:
  - *RoutingRule: The created remote rule (carries the remote rule ID)
  - error: apperr.BadGateway on upstream failure
*/
func (client *Client) CreateRoutingRule(context context.Context, zoneID, fullEmail, destination, name string) (*RoutingRule, error) {
	body := createRuleRequest{
		Enabled: true,
		Name:    name,
		Matchers: []ruleMatcher{
			{Type: "literal", Field: "to", Value: fullEmail},
		},
		Actions: []ruleAction{
			{Type: "forward", Value: []string{destination}},
		},
	}

	rule := &RoutingRule{}
	err := client.do(context, http.MethodPost, "/zones/"+zoneID+"/email/routing/rules", body, rule)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

/*
DeleteRoutingRule removes a remote Email Routing rule.

Parameters:
  - context: context.Context
  - zoneID: string
  - ruleID: string (remote rule identifier)

Returns:
  - error: apperr.BadGateway on upstream failure
*/
func (client *Client) DeleteRoutingRule(context context.Context, zoneID, ruleID string) error {
	return client.do(context, http.MethodDelete, "/zones/"+zoneID+"/email/routing/rules/"+ruleID, nil, nil)
}

// # Transport

// do executes one API call and decodes the envelope result into target.
//
// Cloudflare-reported errors (success=false) and transport errors both
// collapse into apperr.BadGateway; the distinction only matters in logs.
func (client *Client) do(context context.Context, method, path string, body interface{}, target interface{}) error {
	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cloudflare: failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(context, method, client.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("cloudflare: failed to build request: %w", err)
	}

	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return apperr.BadGateway("Cloudflare API is unreachable")
	}
	defer func() { _ = response.Body.Close() }()

	envelope := &apiEnvelope{}
	if err := json.NewDecoder(response.Body).Decode(envelope); err != nil {
		return apperr.BadGateway("Cloudflare API returned a malformed response")
	}

	if !envelope.Success {
		if len(envelope.Errors) > 0 {
			return apperr.BadGateway(fmt.Sprintf("Cloudflare API error %d: %s",
				envelope.Errors[0].Code, envelope.Errors[0].Message))
		}
		return apperr.BadGateway(fmt.Sprintf("Cloudflare API request failed (status %d)", response.StatusCode))
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, target); err != nil {
		return apperr.BadGateway("Cloudflare API returned an unexpected result shape")
	}

	return nil
}
