package salary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RuleType string

const (
	RulePerTon    RuleType = "PER_TON"
	RuleAllowance RuleType = "ALLOWANCE"
	RuleBonus     RuleType = "BONUS"
	RulePenalty   RuleType = "PENALTY"
)

// Table: salary_rules
type Rule struct {
	ID            string            `gorm:"primaryKey;type:char(32)" json:"id"`
	Name          string            `gorm:"type:varchar(128);not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description,omitempty"`
	RuleType      RuleType          `gorm:"type:varchar(16);not null;index:idx_rules_lookup,priority:1" json:"rule_type"`
	RateAmount    decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"rate_amount"`
	ConfigJSON    datatypes.JSONMap `json:"config_json,omitempty"`
	EffectiveFrom time.Time         `gorm:"type:date;not null;index:idx_rules_lookup,priority:2" json:"effective_from"`
	EffectiveTo   *time.Time        `gorm:"type:date" json:"effective_to,omitempty"`
	Version       int               `gorm:"not null" json:"version"`
	IsActive      bool              `gorm:"not null" json:"is_active"`
	RouteID       *string           `gorm:"type:char(32)" json:"route_id,omitempty"`
	CreatedByID   string            `gorm:"type:varchar(64)" json:"created_by_id,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Rule) TableName() string { return "salary_rules" }

// AppliesAt reports whether r is an active PER_TON rule covering day at (bounds inclusive).
func (r Rule) AppliesAt(at time.Time) bool {
	if !r.IsActive || r.RuleType != RulePerTon {
		return false
	}
	if r.EffectiveFrom.After(at) {
		return false
	}
	return r.EffectiveTo == nil || !r.EffectiveTo.Before(at)
}

// ResolveActive picks the rule in force at the given date: latest EffectiveFrom,
// ties broken by the highest Version.
func ResolveActive(rules []Rule, at time.Time) (*Rule, error) {
	var candidates []Rule
	for _, r := range rules {
		if r.AppliesAt(at) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoActiveRule
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
			return a.EffectiveFrom.After(b.EffectiveFrom)
		}
		return a.Version > b.Version
	})
	return &candidates[0], nil
}

// ValidateRule checks the fields a caller supplies when creating a rule.
func ValidateRule(rate decimal.Decimal, from time.Time, to *time.Time) error {
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	if from.IsZero() {
		return ErrEffectiveFromRequired
	}
	if to != nil && to.Before(from) {
		return ErrInvalidRuleRange
	}
	return nil
}
