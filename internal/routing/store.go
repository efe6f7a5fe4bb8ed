package routing

import (
	"context"
	"time"
)

// RuleRepository defines the data access contract for the local rule mirror.
type RuleRepository interface {
	List(context context.Context) ([]*Rule, error)
	FindByID(context context.Context, id string) (*Rule, error)
	Create(context context.Context, rule *Rule) error
	Delete(context context.Context, id string) error
}

// ZoneNameCache caches zone-id → zone-name lookups with a TTL, sparing a
// Cloudflare round-trip on every rule creation.
type ZoneNameCache interface {
	Get(context context.Context, zoneID string) (string, error)
	Set(context context.Context, zoneID, zoneName string, ttl time.Duration) error
}
