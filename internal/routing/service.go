package routing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emailkuy/emailkuy/internal/platform/cloudflare"
	"github.com/emailkuy/emailkuy/internal/platform/validate"
	"github.com/emailkuy/emailkuy/pkg/alias"
	"github.com/emailkuy/emailkuy/pkg/uuid"
)

// zoneNameTTL bounds how long a cached zone-id → zone-name mapping is trusted.
// Zone renames are extremely rare; an hour of staleness is acceptable.
const zoneNameTTL = 1 * time.Hour

// CloudflareAPI is the remote collaborator contract, satisfied by
// [cloudflare.Client] and by fakes in tests.
type CloudflareAPI interface {
	ListZones(context context.Context) ([]cloudflare.Zone, error)
	GetZone(context context.Context, zoneID string) (*cloudflare.Zone, error)
	CreateRoutingRule(context context.Context, zoneID, fullEmail, destination, name string) (*cloudflare.RoutingRule, error)
	DeleteRoutingRule(context context.Context, zoneID, ruleID string) error
}

type Service struct {
	repo      RuleRepository
	zoneCache ZoneNameCache
	remote    CloudflareAPI
	logger    *slog.Logger
}

func NewService(repo RuleRepository, zoneCache ZoneNameCache, remote CloudflareAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		zoneCache: zoneCache,
		remote:    remote,
		logger:    logger,
	}
}

// ListZones passes through the active zones visible to the API token.
func (service *Service) ListZones(context context.Context) ([]cloudflare.Zone, error) {
	return service.remote.ListZones(context)
}

// ListRules returns the local mirror, newest first.
func (service *Service) ListRules(context context.Context) ([]*Rule, error) {
	return service.repo.List(context)
}

// CreateInput describes a new forwarding rule.
type CreateInput struct {
	ZoneID      string
	AliasPart   string
	Destination string

	// CreatedBy labels the remote rule with the operator who made it.
	CreatedBy string
}

// CreateRule creates the remote rule first, then mirrors it locally.
//
// The two steps are not atomic: if the mirror insert fails after the remote
// rule was created, the remote rule survives and the discrepancy is logged.
func (service *Service) CreateRule(context context.Context, input CreateInput) (*Rule, error) {
	normalized := alias.Normalize(input.AliasPart)

	validator := &validate.Validator{}
	validator.Required(FieldZoneID, input.ZoneID).
		Required(FieldAliasPart, input.AliasPart).
		Custom(FieldAliasPart, input.AliasPart != "" && normalized == "",
			"Alias contains no usable characters").
		Required(FieldDestination, input.Destination).
		Email(FieldDestination, input.Destination)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	zoneName, err := service.resolveZoneName(context, input.ZoneID)
	if err != nil {
		return nil, err
	}

	fullEmail := normalized + "@" + zoneName
	remoteName := fmt.Sprintf("%s (by %s)", fullEmail, input.CreatedBy)

	remoteRule, err := service.remote.CreateRoutingRule(context, input.ZoneID, fullEmail, input.Destination, remoteName)
	if err != nil {
		return nil, err
	}

	rule := &Rule{
		ID:          uuid.New(),
		ZoneID:      input.ZoneID,
		ZoneName:    zoneName,
		AliasPart:   normalized,
		FullEmail:   fullEmail,
		RuleID:      remoteRule.ID,
		Destination: input.Destination,
		IsActive:    remoteRule.Enabled,
		CreatedAt:   time.Now(),
	}

	if err := service.repo.Create(context, rule); err != nil {
		// The remote rule now exists without a mirror row. Surface loudly;
		// the operator reconciles by deleting the rule in Cloudflare.
		service.logger.Error("routing_mirror_insert_failed_after_remote_create",
			slog.String("zone_id", input.ZoneID),
			slog.String("remote_rule_id", remoteRule.ID),
			slog.Any("error", err),
		)
		return nil, err
	}

	return rule, nil
}

// DeleteRule removes the remote rule first, then the mirror row.
func (service *Service) DeleteRule(context context.Context, id string) error {
	rule, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.remote.DeleteRoutingRule(context, rule.ZoneID, rule.RuleID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		service.logger.Error("routing_mirror_delete_failed_after_remote_delete",
			slog.String("rule_id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// resolveZoneName answers from the cache when possible, falling back to the
// Cloudflare API and repopulating the cache on a miss.
func (service *Service) resolveZoneName(context context.Context, zoneID string) (string, error) {
	if cached, err := service.zoneCache.Get(context, zoneID); err == nil {
		return cached, nil
	}

	zone, err := service.remote.GetZone(context, zoneID)
	if err != nil {
		return "", err
	}

	// Cache write is best effort: a cold cache only costs latency.
	if err := service.zoneCache.Set(context, zoneID, zone.Name, zoneNameTTL); err != nil {
		service.logger.Warn("zone_name_cache_set_failed",
			slog.String("zone_id", zoneID),
			slog.Any("error", err),
		)
	}

	return zone.Name, nil
}
