package routing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emailkuy/emailkuy/internal/platform/database/schema"
	"github.com/emailkuy/emailkuy/internal/platform/dberr"
)

type PostgresRuleRepository struct {
	db *pgxpool.Pool
}

func NewRuleRepository(db *pgxpool.Pool) *PostgresRuleRepository {
	return &PostgresRuleRepository{db: db}
}

func (repository *PostgresRuleRepository) List(context context.Context) ([]*Rule, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC;
	`,
		schema.MailRoutingRule.ID,
		schema.MailRoutingRule.ZoneID,
		schema.MailRoutingRule.ZoneName,
		schema.MailRoutingRule.AliasPart,
		schema.MailRoutingRule.FullEmail,
		schema.MailRoutingRule.RuleID,
		schema.MailRoutingRule.Destination,
		schema.MailRoutingRule.IsActive,
		schema.MailRoutingRule.CreatedAt,
		schema.MailRoutingRule.Table,
		schema.MailRoutingRule.CreatedAt,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_routing_rules")
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule := &Rule{}
		err := rows.Scan(
			&rule.ID,
			&rule.ZoneID,
			&rule.ZoneName,
			&rule.AliasPart,
			&rule.FullEmail,
			&rule.RuleID,
			&rule.Destination,
			&rule.IsActive,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_routing_rule")
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func (repository *PostgresRuleRepository) FindByID(context context.Context, id string) (*Rule, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.MailRoutingRule.ID,
		schema.MailRoutingRule.ZoneID,
		schema.MailRoutingRule.ZoneName,
		schema.MailRoutingRule.AliasPart,
		schema.MailRoutingRule.FullEmail,
		schema.MailRoutingRule.RuleID,
		schema.MailRoutingRule.Destination,
		schema.MailRoutingRule.IsActive,
		schema.MailRoutingRule.CreatedAt,
		schema.MailRoutingRule.Table,
		schema.MailRoutingRule.ID,
	)

	rule := &Rule{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&rule.ID,
		&rule.ZoneID,
		&rule.ZoneName,
		&rule.AliasPart,
		&rule.FullEmail,
		&rule.RuleID,
		&rule.Destination,
		&rule.IsActive,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_routing_rule")
	}

	return rule, nil
}

func (repository *PostgresRuleRepository) Create(context context.Context, rule *Rule) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		schema.MailRoutingRule.Table,
		schema.MailRoutingRule.ID,
		schema.MailRoutingRule.ZoneID,
		schema.MailRoutingRule.ZoneName,
		schema.MailRoutingRule.AliasPart,
		schema.MailRoutingRule.FullEmail,
		schema.MailRoutingRule.RuleID,
		schema.MailRoutingRule.Destination,
		schema.MailRoutingRule.IsActive,
		schema.MailRoutingRule.CreatedAt,
	)

	_, err := repository.db.Exec(context, query,
		rule.ID,
		rule.ZoneID,
		rule.ZoneName,
		rule.AliasPart,
		rule.FullEmail,
		rule.RuleID,
		rule.Destination,
		rule.IsActive,
		rule.CreatedAt,
	)

	return dberr.Wrap(err, "create_routing_rule")
}

func (repository *PostgresRuleRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1;",
		schema.MailRoutingRule.Table,
		schema.MailRoutingRule.ID,
	)

	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "delete_routing_rule")
}
