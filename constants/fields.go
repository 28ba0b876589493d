package constants

// FieldLabel identifies one canonical disclosure topic of the Article 8
// periodic template. Free-text answers extracted from a PDF are matched to
// these labels by embedding similarity against the reference questions below.
type FieldLabel string

const (
	PromotedESCharacteristics      FieldLabel = "a_promoted_e_s_characteristics"
	SustainabilityIndicatorsUsed   FieldLabel = "a_sustainability_indicators_used"
	SustainableInvestmentObjective FieldLabel = "a_sustainable_investment_objectives"
	NoSignificantHarm              FieldLabel = "a_no_significant_harm"
	PrincipalAdverseImpacts        FieldLabel = "a_principal_adverse_impacts_explaination"
	InvestmentStrategy             FieldLabel = "a_investment_strategy"
	BindingElementsStrategy        FieldLabel = "a_binding_elements_investment_strategy"
	CommittedMinimumRate           FieldLabel = "a_committed_minimum_rate"
	PolicyGoodGovernance           FieldLabel = "a_policy_good_governance_practice"
	PlannedAssetAllocation         FieldLabel = "a_planned_asset_allocation"
	DerivativesESCharacteristics   FieldLabel = "a_derivatives_e_s_characteristics"
	MinimumTaxonomyAlignment       FieldLabel = "a_minimum_extent_taxonomy_alignment"
	InvestFossilNuclear            FieldLabel = "a_invest_fossil_nuclear"
	MinimumShareEnvObjective       FieldLabel = "a_minimum_share_env_objective"
	MinimumShareSocialInvestment   FieldLabel = "a_minimum_share_social_investment"
	InvestmentIncludedInOther      FieldLabel = "a_investment_included_in_other"
	SpecificIndexBenchmark         FieldLabel = "a_specific_index_benchmark"
	ProductInformationOnline       FieldLabel = "a_product_information_online"
)

// ReferenceQuestions maps each canonical label to the reference phrasing of
// its question in the Finnish Article 8 template. Embeddings of these texts
// are computed once per session and reused for every template.
var ReferenceQuestions = map[FieldLabel]string{
	PromotedESCharacteristics:      "Mitä ympäristöön ja/tai yhteiskuntaan littyviä ominaisuuksia tämä rahoitustuote edistää?",
	SustainabilityIndicatorsUsed:   "Mitä kestävyysindikaattoreita käytetään mittaamaan kunkun tämän rahoitustuotteen edistämän ympäristöön tai yhteiskuntaan littyvän ominaisuuden toteutumista?",
	SustainableInvestmentObjective: "Mitkä ovat niiden kestävien sijoitusten tavoitteet, jotka rahoitustuotteessa aiotaan tehdä osittain, ja miten kestävä sijoitus edistää näiden tavoitteiden saavuttamista?",
	NoSignificantHarm:              "Miten kestävät sijoitukset, jotka rahoitustuotteessa aiotaan tehdä osittain eivät aiheuta haittaa yhdellekään yynmpäristöön tai yhteiskuntaan liittyvälle kestävälle sijoitustavoitteelle?",
	PrincipalAdverseImpacts:        "Otetaanko tässä rahoitustuotteessa huomioon pääasialliset haitalliset vaikutukset kestävyystekijöihin?",
	InvestmentStrategy:             "Mitä sijoitusstrategiaa tässä rahoitustuotteessa noudatetaan?",
	BindingElementsStrategy:        "Mitä ovat sijoitusstrategian sitovat osatekijät, joita käytetään valittaessa sijoitukset kunkin tämän rahoitustuotteen edistämän ympäristöön tai yhteiskuntaann littyvän ominaisuuden toteutumiseksi?",
	CommittedMinimumRate:           "Mikä on sitova vähimmäismäärä, jolla vähennetään niiden sijoitusten laajuuutta, jotka on otettu huomioon ennen sijoitusstrategian soveltamista?",
	PolicyGoodGovernance:           "Mitkä ovat toimintaperiaatteet, joiden mukaisesti arvioidaan sijoituskohteina olevien yritysten hyviä hallintotapooja?",
	PlannedAssetAllocation:         "Mikä on tälle rahoitustuotteelle suunniteltu varojen allokointi?",
	DerivativesESCharacteristics:   "Miten johdannaisten käyttö saa aikaan rahoitustuotteen edistämien ympäristöön tai yhteiskuntaan liittyvien ominaisuuksien totetumista?",
	MinimumTaxonomyAlignment:       "Missä määrin kestävät sijoitukset, joillla on ympäristötavoite, ovat EU:n luokitusjärjestelmän mukaisia?",
	InvestFossilNuclear:            "Sijoitetaanko rahoitustuotteessa EU:n luokitusjärjestelmän mukaisiin fossiiliseen kaasuun ja/tai ydinenergiaan liittyviin toimintoihin?",
	MinimumShareEnvObjective:       "Mikä on sellaisten ympäristötavoitteita edistävien kestävien sijoitusten vähimmäisosuus, jotka eivät ole EU:n luokitusjärjestelmän mukaisia?",
	MinimumShareSocialInvestment:   "Mikä on yhteiskunnallisesti kestävien sijoitusten vähimmäisosuus?",
	InvestmentIncludedInOther:      "Mitkä sijoitukset sisältyvät kohtaan “#2 Muu”, mikä on niiden tarkoitus ja sovelletaanko ympäristöön liittyvi tai yhteiskunnallisia vähimmäistason suojatoimia?",
	SpecificIndexBenchmark:         "Onko tietty indeksi nimetty vertailuarvoksi, jotta voidaanmäärittää, vastaako tämä rahoitustuote edistämiään ympäristöön ja/tai yhteiskuntaan liittyviä ominaisuuksia?",
	ProductInformationOnline:       "Mistä voin saada tarkempia tuotekohtaisia tietoja verkossa?",
}

// Structured fields returned by the table-extraction service for the first
// page of a template. Selection marks (sm_) carry "selected"/"unselected",
// the rest are free text. Stored under these exact keys in Template.Fields.
const (
	SelSustainableObjectiveYes = "sm_sustainable_investment_object_yes"
	SelSustainableObjectiveNo  = "sm_sustainable_investment_object_no"
	SelEnvironmentalObjective  = "sm_environmental_objective"
	SelSocialObjective         = "sm_social_objective"
	SelMinimumSustainable      = "sm_minimum_sustainable_investment"
	SelNoSustainable           = "sm_no_sustainable_investment"
	SelEnvObjectiveTaxonomy    = "sm_environmental_objective_taxonomy"
	SelMinSustainableEnvTax    = "sm_minimum_sustainable_investment_env_taxonomy"

	FieldEnvironmentalObjective = "f_environmental_objective"
	FieldSocialObjective        = "f_social_objective"
	FieldMinimumSustainable     = "f_minimum_sustainable_investment"
	FieldDoNotHarmStatement     = "f_taxonomy_do_not_harm_statement"
	FieldPercentageAligned      = "f_percentage_aligned_with_e_s_characteristics"
	FieldTaxonomyFossilInclSov  = "f_taxonomy_aligned_fossil_gas_incl_sov_bonds"
	FieldNonTaxonomyInclSov     = "f_non_taxonomy_aligned_fossil_gas_incl_sov_bonds"
	FieldTaxonomyFossilExclSov  = "f_taxonomy_aligned_fossil_gas_excl_sov_bonds"
	FieldNonTaxonomyExclSov     = "f_non_taxonomy_aligned_fossil_gas_excl_sov_bonds"

	FieldTemplateArticle = "f_template_article"
	FieldProductName     = "f_product_name"
	FieldLegalEntityID   = "f_legal_entity_identifier"
)

// SelectedValue is the value a ticked selection mark carries on the wire.
const SelectedValue = "selected"
