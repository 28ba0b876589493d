// Package validation evaluates the ordered compliance rule catalog against
// one extracted template. Deterministic rules are pure functions of the
// field map; reasoning rules delegate qualitative judgment to the external
// reasoning service and fail closed when its response cannot be parsed.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sfdrtools/sfdr-validator/internal/llm"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// Condition is one named validation outcome. Immutable once produced; the
// engine emits exactly one per catalog rule, always in catalog order.
type Condition struct {
	Name        string
	Description string
	Value       bool
	Comment     string
}

// runState carries derived classifications between rules of one run. The
// consistency rule reuses the classification produced by the promoted-
// characteristics rule instead of re-deriving it from raw fields.
type runState struct {
	promotedClassified bool
	promotedKind       string
}

// Engine evaluates the rule catalog. A rule that is not applicable still
// emits a Condition (value true, explanatory comment) so every template
// produces the same ordered list.
type Engine struct {
	reasoner llm.Reasoner
	logger   *slog.Logger
}

func NewEngine(reasoner llm.Reasoner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{reasoner: reasoner, logger: logger}
}

type rule struct {
	name     string
	eval     func(ctx context.Context, t *template.Template, rs *runState) (Condition, error)
}

// catalog returns the fixed rule order. Reasoning rules come after the
// deterministic ones, and the consistency rule must follow the promoted-
// characteristics rule it depends on.
func (e *Engine) catalog() []rule {
	return []rule{
		{"Table filled correctly?", e.ruleTableFilled},
		{"'No significant harm' statement provided?", e.ruleNoSignificantHarm},
		{"Description for planned asset allocation added?", e.ruleAssetAllocation},
		{"Percentage of aligned assets min 70%?", e.ruleAlignedPercentage},
		{"EU Taxonomy alignment indicated?", e.ruleTaxonomyIndicated},
		{"Minimum share of sustainable investments with social objective disclosed?", e.ruleSocialShare},
		{"Other investments specified?", e.ruleOtherInvestments},
		{"Promoted E/S characteristics indicated?", e.rulePromotedCharacteristics},
		{"Consistent sustainability indicators?", e.ruleConsistentIndicators},
		{"Objectives align with SFDR Article 2.17?", e.ruleObjectivesAlign},
		{"Promoted taxonomy objective stated?", e.ruleTaxonomyObjective},
		{"Non-compliance with taxonomy explained?", e.ruleNonComplianceExplained},
	}
}

// Validate runs the full catalog over one template. The only error path is
// a reasoning-service transport failure, which is fatal: no later verdict
// can be trusted without the service. Everything else degrades into the
// emitted conditions.
func (e *Engine) Validate(ctx context.Context, t *template.Template) ([]Condition, error) {
	start := time.Now()
	rs := &runState{}

	rules := e.catalog()
	conditions := make([]Condition, 0, len(rules))
	for _, r := range rules {
		cond, err := r.eval(ctx, t, rs)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.name, err)
		}
		conditions = append(conditions, cond)
		e.logger.Debug("rule evaluated",
			"template", t.LegalEntityID, "rule", cond.Name, "value", cond.Value)
	}

	e.logger.Info("validation complete",
		"template", t.LegalEntityID,
		"rules", len(conditions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return conditions, nil
}
