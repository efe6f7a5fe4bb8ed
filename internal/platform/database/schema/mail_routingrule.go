package schema

// MailRoutingRuleTable represents the 'mail.routing_rule' table
type MailRoutingRuleTable struct {
	Table       string
	ID          string
	ZoneID      string
	ZoneName    string
	AliasPart   string
	FullEmail   string
	RuleID      string
	Destination string
	IsActive    string
	CreatedAt   string
}

// MailRoutingRule is the schema definition for mail.routing_rule
var MailRoutingRule = MailRoutingRuleTable{
	Table:       "mail.routing_rule",
	ID:          "id",
	ZoneID:      "zoneid",
	ZoneName:    "zonename",
	AliasPart:   "aliaspart",
	FullEmail:   "fullemail",
	RuleID:      "ruleid",
	Destination: "destination",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t MailRoutingRuleTable) Columns() []string {
	return []string{
		t.ID, t.ZoneID, t.ZoneName, t.AliasPart, t.FullEmail,
		t.RuleID, t.Destination, t.IsActive, t.CreatedAt,
	}
}
