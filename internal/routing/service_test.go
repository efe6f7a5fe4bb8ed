package routing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/cloudflare"
)

// fakeRuleRepository stores mirror rows in memory.
type fakeRuleRepository struct {
	rules     map[string]*Rule
	createErr error
}

func (f *fakeRuleRepository) List(_ context.Context) ([]*Rule, error) {
	out := make([]*Rule, 0, len(f.rules))
	for _, rule := range f.rules {
		out = append(out, rule)
	}
	return out, nil
}

func (f *fakeRuleRepository) FindByID(_ context.Context, id string) (*Rule, error) {
	if rule, ok := f.rules[id]; ok {
		return rule, nil
	}
	return nil, apperr.NotFound("Routing rule")
}

func (f *fakeRuleRepository) Create(_ context.Context, rule *Rule) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRuleRepository) Delete(_ context.Context, id string) error {
	delete(f.rules, id)
	return nil
}

// fakeZoneCache records lookups so tests can assert hit/miss behavior.
type fakeZoneCache struct {
	entries map[string]string
	sets    int
}

func (f *fakeZoneCache) Get(_ context.Context, zoneID string) (string, error) {
	if name, ok := f.entries[zoneID]; ok {
		return name, nil
	}
	return "", apperr.NotFound("Cached zone name")
}

func (f *fakeZoneCache) Set(_ context.Context, zoneID, zoneName string, _ time.Duration) error {
	f.entries[zoneID] = zoneName
	f.sets++
	return nil
}

// fakeCloudflare counts remote calls and can fail on demand.
type fakeCloudflare struct {
	zoneLookups int
	created     []string
	deleted     []string
	deleteErr   error
}

func (f *fakeCloudflare) ListZones(_ context.Context) ([]cloudflare.Zone, error) {
	return []cloudflare.Zone{{ID: "zone-1", Name: "example.com", Status: "active"}}, nil
}

func (f *fakeCloudflare) GetZone(_ context.Context, zoneID string) (*cloudflare.Zone, error) {
	f.zoneLookups++
	if zoneID != "zone-1" {
		return nil, apperr.BadGateway("Cloudflare API error 7003: zone not found")
	}
	return &cloudflare.Zone{ID: zoneID, Name: "example.com", Status: "active"}, nil
}

func (f *fakeCloudflare) CreateRoutingRule(_ context.Context, _, fullEmail, _, _ string) (*cloudflare.RoutingRule, error) {
	f.created = append(f.created, fullEmail)
	return &cloudflare.RoutingRule{ID: "remote-1", Enabled: true}, nil
}

func (f *fakeCloudflare) DeleteRoutingRule(_ context.Context, _, ruleID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ruleID)
	return nil
}

func newRoutingFixture() (*Service, *fakeRuleRepository, *fakeZoneCache, *fakeCloudflare) {
	repo := &fakeRuleRepository{rules: map[string]*Rule{}}
	cache := &fakeZoneCache{entries: map[string]string{}}
	remote := &fakeCloudflare{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, cache, remote, logger), repo, cache, remote
}

func TestCreateRule_MirrorsRemoteRule(t *testing.T) {
	service, repo, cache, remote := newRoutingFixture()

	rule, err := service.CreateRule(context.Background(), CreateInput{
		ZoneID:      "zone-1",
		AliasPart:   "Sales",
		Destination: "inbox@gmail.com",
		CreatedBy:   "windaa",
	})

	require.NoError(t, err)
	assert.Equal(t, "sales", rule.AliasPart)
	assert.Equal(t, "sales@example.com", rule.FullEmail)
	assert.Equal(t, "remote-1", rule.RuleID)
	assert.True(t, rule.IsActive)

	require.Len(t, remote.created, 1)
	assert.Equal(t, "sales@example.com", remote.created[0])
	assert.Len(t, repo.rules, 1)
	assert.Equal(t, 1, cache.sets)
}

func TestCreateRule_ZoneNameCacheSkipsRemoteLookup(t *testing.T) {
	service, _, cache, remote := newRoutingFixture()
	cache.entries["zone-1"] = "example.com"

	_, err := service.CreateRule(context.Background(), CreateInput{
		ZoneID:      "zone-1",
		AliasPart:   "billing",
		Destination: "inbox@gmail.com",
		CreatedBy:   "windaa",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, remote.zoneLookups)
}

func TestCreateRule_RejectsMissingFields(t *testing.T) {
	service, _, _, remote := newRoutingFixture()

	_, err := service.CreateRule(context.Background(), CreateInput{
		ZoneID:      "",
		AliasPart:   "",
		Destination: "not-an-email",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	assert.Empty(t, remote.created, "no remote call on validation failure")
}

func TestCreateRule_RejectsAliasWithNoUsableCharacters(t *testing.T) {
	service, _, cache, _ := newRoutingFixture()
	cache.entries["zone-1"] = "example.com"

	_, err := service.CreateRule(context.Background(), CreateInput{
		ZoneID:      "zone-1",
		AliasPart:   "@#$%",
		Destination: "inbox@gmail.com",
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestDeleteRule_RemoteFirstThenMirror(t *testing.T) {
	service, repo, _, remote := newRoutingFixture()
	repo.rules["local-1"] = &Rule{ID: "local-1", ZoneID: "zone-1", RuleID: "remote-1"}

	err := service.DeleteRule(context.Background(), "local-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"remote-1"}, remote.deleted)
	assert.Empty(t, repo.rules)
}

func TestDeleteRule_MissingMirrorRowIs404(t *testing.T) {
	service, _, _, remote := newRoutingFixture()

	err := service.DeleteRule(context.Background(), "ghost")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Empty(t, remote.deleted)
}

func TestDeleteRule_RemoteFailureKeepsMirror(t *testing.T) {
	service, repo, _, remote := newRoutingFixture()
	repo.rules["local-1"] = &Rule{ID: "local-1", ZoneID: "zone-1", RuleID: "remote-1"}
	remote.deleteErr = errors.New("upstream down")

	err := service.DeleteRule(context.Background(), "local-1")

	require.Error(t, err)
	assert.Len(t, repo.rules, 1, "mirror row must survive a failed remote delete")
}
