package validation

import (
	"context"
	"strings"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// Deterministic rules: pure functions of already-extracted field values.
// Field lookups are total: an absent field reads as "" and the rule runs
// the same way on complete and incomplete templates.

func selected(t *template.Template, name string) bool {
	return t.Value(name) == constants.SelectedValue
}

// ruleTableFilled checks that the boxes in the first-page table are ticked,
// and that a minimum percentage accompanies a sustainable-investment tick.
func (e *Engine) ruleTableFilled(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	value := true
	var comment strings.Builder

	objYes := selected(t, constants.SelSustainableObjectiveYes)
	objNo := selected(t, constants.SelSustainableObjectiveNo)

	if !objYes && !objNo {
		value = false
		comment.WriteString("No selection made for sustainable investment object. ")
	}

	var relevant []string
	switch {
	case objYes:
		relevant = []string{constants.SelEnvironmentalObjective, constants.SelSocialObjective}
	case objNo:
		relevant = []string{constants.SelMinimumSustainable, constants.SelNoSustainable}
	}

	numSelected := 0
	for _, sm := range relevant {
		if selected(t, sm) {
			numSelected++
		}
	}
	// more than one tick is apparently fine; only zero is a finding
	if numSelected == 0 {
		value = false
		comment.WriteString("No selection made for promotion of sustainable investment objective. ")
	}

	switch {
	case selected(t, constants.SelEnvironmentalObjective):
		if !hasDigits(t.Value(constants.FieldEnvironmentalObjective)) {
			value = false
			comment.WriteString("Environmental objective selected but no minimum % provided. ")
		}
	case selected(t, constants.SelSocialObjective):
		if !hasDigits(t.Value(constants.FieldSocialObjective)) {
			value = false
			comment.WriteString("Social objective selected but no minimum % provided. ")
		}
	case selected(t, constants.SelMinimumSustainable):
		if !hasDigits(t.Value(constants.FieldMinimumSustainable)) {
			value = false
			comment.WriteString("Minimum sustainable investment selected but no minimum % provided. ")
		}
	}

	return Condition{
		Name:        "Table filled correctly?",
		Description: "Check that the boxes in the table are ticked (and % if sustainable investments).",
		Value:       value,
		Comment:     comment.String(),
	}, nil
}

// ruleNoSignificantHarm requires the do-not-harm statement whenever the
// product promotes environmental features.
func (e *Engine) ruleNoSignificantHarm(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	var value bool
	var comment string

	if selected(t, constants.SelEnvironmentalObjective) || selected(t, constants.SelMinimumSustainable) {
		value = false
		comment = "Product promotes environmental features and 'No significant harm' statement has not been included."
		if len(t.Value(constants.FieldDoNotHarmStatement)) > 5 {
			value = true
			comment = ""
		}
	} else {
		value = true
		comment = "'No significant harm' statement not required, product does not promote environmental features."
	}

	return Condition{
		Name:        "'No significant harm' statement provided?",
		Description: "If the product promotes environmental features you should add this statement. Standard mutoinen!",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleAssetAllocation requires a free-text description of the planned asset
// allocation.
func (e *Engine) ruleAssetAllocation(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	value := false
	comment := "No answer found."
	if len(t.Value(string(constants.PlannedAssetAllocation))) > 5 {
		value = true
		comment = ""
	}

	return Condition{
		Name:        "Description for planned asset allocation added?",
		Description: "Answer to question 'What is the asset allocation planned for this financial product?' should be provided.",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleAlignedPercentage checks the E/S-aligned share is present and at
// least 70 %.
func (e *Engine) ruleAlignedPercentage(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	value := false
	comment := "Percentage of assets aligned with E/S characteristics not found."

	if number, ok := concatDigits(t.Value(constants.FieldPercentageAligned)); ok {
		if number >= 70 {
			value = true
			comment = ""
		} else {
			value = false
			comment = "Percentage of assets aligned with E/S characteristics below 70 %."
		}
	}

	if !value && hasDigits(t.Value(string(constants.MinimumTaxonomyAlignment))) {
		value = true
		comment = ""
	}

	return Condition{
		Name:        "Percentage of aligned assets min 70%?",
		Description: "Percentage of assets aligned with E/S characteristics should be provided and at least 70 %.",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleTaxonomyIndicated requires some percentage figure for EU taxonomy
// alignment; a product not committed to taxonomy-compliant investments must
// still state 0 %.
func (e *Engine) ruleTaxonomyIndicated(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	value := false
	comment := "The % of investments in line with EU taxonomy has not been provided."

	for _, name := range []string{
		string(constants.MinimumTaxonomyAlignment),
		string(constants.PlannedAssetAllocation),
	} {
		v := t.Value(name)
		if hasDigits(v) && strings.Contains(v, "%") {
			value = true
			comment = ""
		}
	}

	return Condition{
		Name:        "EU Taxonomy alignment indicated?",
		Description: "If you promote environmental features, you should indicate to what extent sustainable investments are in line with the EU taxonomy. If not committed to taxonomy compliant investments should fill in 0%. Either way, the answer should contain a %.",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleSocialShare applies only when the table declares sustainable
// investments; otherwise it passes with a not-required comment.
func (e *Engine) ruleSocialShare(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	var value bool
	var comment string

	if selected(t, constants.SelMinimumSustainable) {
		value = false
		comment = "Minimum share of social objective investments not provided"
		v := t.Value(string(constants.MinimumShareSocialInvestment))
		if hasDigits(v) && strings.Contains(v, "%") {
			value = true
			comment = ""
		}
	} else {
		value = true
		comment = "Information not required, no sustainable investments with a social objective."
	}

	return Condition{
		Name:        "Minimum share of sustainable investments with social objective disclosed?",
		Description: "If the product invests in sustainable investments with a social objective, it should be disclosed what their share is.",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleOtherInvestments requires the "#2 Other" bucket to be described,
// unless the aligned share is exactly 100 % and there is nothing to
// describe.
func (e *Engine) ruleOtherInvestments(_ context.Context, t *template.Template, _ *runState) (Condition, error) {
	value := false
	comment := "Other investments not specified."

	if len(t.Value(string(constants.InvestmentIncludedInOther))) > 5 {
		value = true
		comment = ""
	}

	if number, ok := concatDigits(t.Value(constants.FieldPercentageAligned)); ok && number == 100 {
		value = true
		comment = "No other investments"
	}

	return Condition{
		Name:        "Other investments specified?",
		Description: "If the product invests in other investments 'other' should be given in the question details.",
		Value:       value,
		Comment:     comment,
	}, nil
}
