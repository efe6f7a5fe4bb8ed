// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package cloudflare_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/cloudflare"
)

func TestClient_ListZones(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/zones", request.URL.Path)
		assert.Equal(t, "active", request.URL.Query().Get("status"))
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"success": true,
			"errors":  []any{},
			"result": []map[string]string{
				{"id": "zone-1", "name": "example.com", "status": "active"},
				{"id": "zone-2", "name": "example.org", "status": "active"},
			},
		})
	}))
	defer server.Close()

	client := cloudflare.NewClient(server.URL, "test-token")
	zones, err := client.ListZones(context.Background())

	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "example.com", zones[0].Name)
	assert.Equal(t, "zone-2", zones[1].ID)
}

func TestClient_CreateRoutingRule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/zones/zone-1/email/routing/rules", request.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, true, body["enabled"])

		matchers := body["matchers"].([]any)
		require.Len(t, matchers, 1)
		matcher := matchers[0].(map[string]any)
		assert.Equal(t, "literal", matcher["type"])
		assert.Equal(t, "to", matcher["field"])
		assert.Equal(t, "sales@example.com", matcher["value"])

		actions := body["actions"].([]any)
		require.Len(t, actions, 1)
		action := actions[0].(map[string]any)
		assert.Equal(t, "forward", action["type"])

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"success": true,
			"errors":  []any{},
			"result":  map[string]any{"id": "rule-9", "name": "sales", "enabled": true},
		})
	}))
	defer server.Close()

	client := cloudflare.NewClient(server.URL, "test-token")
	rule, err := client.CreateRoutingRule(context.Background(), "zone-1", "sales@example.com", "inbox@gmail.com", "sales")

	require.NoError(t, err)
	assert.Equal(t, "rule-9", rule.ID)
}

func TestClient_UpstreamErrorBecomesBadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"success": false,
			"errors": []map[string]any{
				{"code": 10000, "message": "Authentication error"},
			},
			"result": nil,
		})
	}))
	defer server.Close()

	client := cloudflare.NewClient(server.URL, "bad-token")
	_, err := client.ListZones(context.Background())

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadGateway, appError.HTTPStatus)
	assert.Contains(t, appError.Message, "10000")
}

func TestClient_DeleteRoutingRule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "/zones/zone-1/email/routing/rules/rule-9", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"success": true,
			"errors":  []any{},
			"result":  map[string]string{"id": "rule-9"},
		})
	}))
	defer server.Close()

	client := cloudflare.NewClient(server.URL, "test-token")
	err := client.DeleteRoutingRule(context.Background(), "zone-1", "rule-9")

	require.NoError(t, err)
}
