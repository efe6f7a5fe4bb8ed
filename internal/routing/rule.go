// Package routing manages the local mirror of Cloudflare Email Routing rules.
//
// Every rule exists in two places: the authoritative remote rule at
// Cloudflare and a local Postgres mirror row used for fast listing. Create
// and delete are two-step remote-then-local sequences with no compensation;
// a crash between steps leaves a discrepancy that the next create/delete of
// the same alias surfaces naturally.
package routing

import "time"

// Rule is the local mirror of one remote Email Routing rule.
type Rule struct {
	ID          string    `json:"id"`
	ZoneID      string    `json:"zone_id"`
	ZoneName    string    `json:"zone_name"`
	AliasPart   string    `json:"alias_part"`
	FullEmail   string    `json:"full_email"`
	RuleID      string    `json:"rule_id"` // Remote Cloudflare rule identifier.
	Destination string    `json:"destination"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Field names used in validation errors.
const (
	FieldZoneID      = "zone_id"
	FieldAliasPart   = "alias_part"
	FieldDestination = "destination"
)
