package validation

import (
	"context"

	"github.com/sfdrtools/sfdr-validator/constants"
	"github.com/sfdrtools/sfdr-validator/internal/llm"
	"github.com/sfdrtools/sfdr-validator/internal/template"
)

// Reasoning rules delegate a natural-language judgment to the reasoning
// service with a fixed instruction template. Responses are parsed
// defensively: a malformed verdict fails the rule closed with its fallback
// comment, while a transport failure aborts the run (see Engine.Validate).

const promotedCharacteristicsPrompt = `You are provided with a description of environmental and/or social characteristics that are promoted by finanicial product.
Please carefully read the text and find out if the product promotes environmental characteristics (E), social characteristics (S) or both.
Your answer has to be one of the following: ["E","S","both","unclear"].
Your answer must not contain any further explainations.`

const consistentIndicatorsPromptA = `You are provided with a description of sustainability indicators for a financial product.
Please carefully read the description and check if it contains indicators that are consistent with the goal to measure the attainment of `

const consistentIndicatorsPromptB = ` promoted by this financial product.
Your answer should be structured as: {"adequate": adequate, "comment": comment}, where adequate is either "True" or "False" and comment is a short explaination of why you made this decision.
Your answer must not contain anything else.`

// sfdrObjectives is the relevant part of SFDR Article 2.17, quoted in the
// objectives-alignment instruction.
const sfdrObjectives = `'sustainable investment' means an investment in an economic activity that contributes to an environmental objective, as measured, for example,
by key resource efficiency indicators on the use of energy, renewable energy, raw materials, water and land, on the production of waste, and greenhouse gas emissions,
or on its impact on biodiversity and the circular economy, or an investment in an economic activity that contributes to a social objective, in particular an investment
that contributes to tackling inequality or that fosters social cohesion, social integration and labour relations, or an investment in human capital or economically or
socially disadvantaged communities, provided that such investments do not significantly harm any of those objectives and that the investee companies follow good
governance practices, in particular with respect to sound management structures, employee relations, remuneration of staff and tax compliance`

const objectivesAlignPrompt = `You are provided with text regarding the objectives of sustainable investments of a financial product.
Please carefully read the text and and check if it is in line with the objectives of the SFDR Article 2.17. Not all objectives of SFDR Article 2.17 have to be promoted by the product but it must be at least one.
Your answer should be structured as: {"inline_with_objectives": inline_with_objectives, "comment": comment}, where the value of inline_with_objectives is either "True" or "False" and comment is a short explaination of why you made this decision.
Your answer must not contain anything else.
The relevant part of the SFDR Article 2.17 is: ` + sfdrObjectives

const taxonomyObjectivePrompt = `You are provided with text regarding the objectives of sustainable investments of a financial product.
Please carefully read the text and and check if the taxonomy objective to be promoted is stated. The text should refer to at least one of the following taxonomy objectives:
a) climate change mitigation; (b) climate change adaptation; (c) the sustainable use and protection of water and marine resources; (d) the transition to a circular economy; (e) pollution prevention and control; (f) the protection and restoration of biodiversity and ecosystems.
Your answer should be structured as: {"taxonomy_object_stated": taxonomy_object_stated, "comment": comment}, where the value of taxonomy_object_stated is either "True" or "False" and comment is a short explaination of why you made this decision.
Your answer must not contain anything else.`

const nonCompliancePrompt = `You are provided with text regarding the share of sustainable investments in a financial product that are not aligned with the EU Taxonomy.
Please carefully read the text and and check if it provides a reasonable explaination why the financial product invests in sustainable investments that have an environmental objective but do not comply with the taxonomy.
Your answer should be structured as: {"reasonable_explaination": reasonable_explaination, "comment": comment}, where the value of reasonable_explaination is either "True" or "False" and comment is a short explaination of why you made this decision.
Your answer must not contain anything else.`

// rulePromotedCharacteristics classifies what the product promotes. The
// derived classification is recorded on the run state for the consistency
// rule that follows.
func (e *Engine) rulePromotedCharacteristics(ctx context.Context, t *template.Template, rs *runState) (Condition, error) {
	resp, err := e.reasoner.Complete(ctx, promotedCharacteristicsPrompt,
		t.Value(string(constants.PromotedESCharacteristics)))
	if err != nil {
		return Condition{}, err
	}

	var value bool
	var comment string
	switch resp {
	case "both":
		value = true
		comment = "Products promotes environmental and social characteristics."
		rs.promotedKind = "environmental and social characteristics"
	case "E":
		value = true
		comment = "Products promotes environmental characteristics."
		rs.promotedKind = "environmental characteristics"
	case "S":
		value = true
		comment = "Products promotes social characteristics."
		rs.promotedKind = "social characteristics"
	default:
		value = false
		comment = "No clear explaination provided of what environmental and/or social characteristics are promoted by the product."
	}
	rs.promotedClassified = value

	return Condition{
		Name:        "Promoted E/S characteristics indicated?",
		Description: "The description should indicate whether the fund promotes E and S or both.",
		Value:       value,
		Comment:     comment,
	}, nil
}

// ruleConsistentIndicators depends on the classification derived by the
// previous rule: without it the check is False outright and the reasoning
// service is not called at all.
func (e *Engine) ruleConsistentIndicators(ctx context.Context, t *template.Template, rs *runState) (Condition, error) {
	cond := Condition{
		Name:        "Consistent sustainability indicators?",
		Description: "The indicators should be consistent with the previous question.",
	}

	if !rs.promotedClassified {
		cond.Value = false
		cond.Comment = "Consistency could not be checked as no clear explaination of promoted E/S characteristics has been provided in previous answer."
		return cond, nil
	}

	system := consistentIndicatorsPromptA + rs.promotedKind + consistentIndicatorsPromptB
	resp, err := e.reasoner.Complete(ctx, system,
		t.Value(string(constants.SustainabilityIndicatorsUsed)))
	if err != nil {
		return Condition{}, err
	}

	verdict, perr := llm.ParseVerdict(resp, "adequate")
	if perr != nil {
		cond.Value = false
		cond.Comment = "Not able to judge the adequancy of the described sustainability indicators."
		return cond, nil
	}
	cond.Value = verdict.Value
	cond.Comment = verdict.Comment
	return cond, nil
}

// ruleObjectivesAlign applies only to products declaring sustainable
// investments in the first-page table.
func (e *Engine) ruleObjectivesAlign(ctx context.Context, t *template.Template, _ *runState) (Condition, error) {
	cond := Condition{
		Name:        "Objectives align with SFDR Article 2.17?",
		Description: "If the table on the first page indicates that the fund makes sustainable investments, the objective of the sustainable investment should be described, which should be in line with the objectives of SFDR Article 2.17.",
	}

	if !selected(t, constants.SelMinimumSustainable) {
		cond.Value = true
		cond.Comment = "Answer not required. No sustainable investment objective."
		return cond, nil
	}

	objectives := t.Value(string(constants.SustainableInvestmentObjective))
	if objectives == "" {
		cond.Value = false
		cond.Comment = "Sustainable investment object but no answer for objectives provided."
		return cond, nil
	}

	resp, err := e.reasoner.Complete(ctx, objectivesAlignPrompt, objectives)
	if err != nil {
		return Condition{}, err
	}

	verdict, perr := llm.ParseVerdict(resp, "inline_with_objectives")
	if perr != nil {
		cond.Value = false
		cond.Comment = "Not able to check if answer inline with SFDR objectives."
		return cond, nil
	}
	cond.Value = verdict.Value
	cond.Comment = verdict.Comment
	return cond, nil
}

// ruleTaxonomyObjective applies only when the table declares both
// sustainable investments and taxonomy investments.
func (e *Engine) ruleTaxonomyObjective(ctx context.Context, t *template.Template, _ *runState) (Condition, error) {
	cond := Condition{
		Name:        "Promoted taxonomy objective stated?",
		Description: "If the table on the first page indicates that the fund makes sustainable investments and the fund includes taxonomy investments, the taxonomy objective to be promoted should be stated.",
	}

	if !selected(t, constants.SelMinimumSustainable) {
		cond.Value = true
		cond.Comment = "Answer not required. No sustainable investment objective."
		return cond, nil
	}

	objectives := t.Value(string(constants.SustainableInvestmentObjective))
	if objectives == "" {
		cond.Value = false
		cond.Comment = "Sustainable investment object but no answer for objectives provided."
		return cond, nil
	}

	if !selected(t, constants.SelMinSustainableEnvTax) {
		cond.Value = true
		cond.Comment = "Answer not required. The funds does not include taxonomy investments."
		return cond, nil
	}

	resp, err := e.reasoner.Complete(ctx, taxonomyObjectivePrompt, objectives)
	if err != nil {
		return Condition{}, err
	}

	verdict, perr := llm.ParseVerdict(resp, "taxonomy_object_stated")
	if perr != nil {
		cond.Value = false
		cond.Comment = "Not able to check if taxonomy object stated."
		return cond, nil
	}
	cond.Value = verdict.Value
	cond.Comment = verdict.Comment
	return cond, nil
}

// ruleNonComplianceExplained applies only to products with sustainable
// investments; it asks whether the non-taxonomy share is reasonably
// explained.
func (e *Engine) ruleNonComplianceExplained(ctx context.Context, t *template.Template, _ *runState) (Condition, error) {
	cond := Condition{
		Name:        "Non-compliance with taxonomy explained?",
		Description: "If the fund makes sustainable investments with an environmental objective, it should explain why it invests in sustainable investments that have an environmental objective but do not comply with the taxonomy.",
	}

	if !selected(t, constants.SelMinimumSustainable) {
		cond.Value = true
		cond.Comment = "Answer not required. No sustainable investments with an environmental objective."
		return cond, nil
	}

	resp, err := e.reasoner.Complete(ctx, nonCompliancePrompt,
		t.Value(string(constants.MinimumShareEnvObjective)))
	if err != nil {
		return Condition{}, err
	}

	verdict, perr := llm.ParseVerdict(resp, "reasonable_explaination")
	if perr != nil {
		cond.Value = false
		cond.Comment = "Not able to check if the explaination is reasonable."
		return cond, nil
	}
	cond.Value = verdict.Value
	cond.Comment = verdict.Comment
	return cond, nil
}
