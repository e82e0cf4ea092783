package engine

import (
	"fmt"
	"strings"

	"github.com/chemo-dose-safety-server/internal/domain"
)

// geneticEvaluator applies pharmacogenomic dose adjustments. Every genetic
// record on the profile is checked against the gene/drug pairings below;
// multiple matching records compound multiplicatively, each contributing
// its own adjustment entry.
type geneticEvaluator struct{}

func newGeneticEvaluator() *geneticEvaluator { return &geneticEvaluator{} }

func (e *geneticEvaluator) Name() string { return "genetic-evaluator" }

// pgxRule is one gene/drug pharmacogenomic pairing.
type pgxRule struct {
	gene     string
	drugs    []domain.DrugIdentity
	poor     geneticOutcome
	inter    geneticOutcome
	poorOnly bool
}

type geneticOutcome struct {
	factor   float64
	severity domain.AlertSeverity
	priority int
	message  string
}

var pgxRules = []pgxRule{
	{
		gene:  "DPYD",
		drugs: []domain.DrugIdentity{domain.DrugFluorouracil, domain.DrugCapecitabine},
		poor: geneticOutcome{
			factor:   0.25,
			severity: domain.SeverityCritical,
			priority: 10,
			message:  "DPYD deficiency: severe fluoropyrimidine toxicity risk",
		},
		inter: geneticOutcome{
			factor:   0.5,
			severity: domain.SeverityHigh,
			priority: 9,
			message:  "DPYD intermediate metabolizer: elevated fluoropyrimidine toxicity risk",
		},
	},
	{
		gene:  "UGT1A1",
		drugs: []domain.DrugIdentity{domain.DrugIrinotecan},
		poor: geneticOutcome{
			factor:   0.7,
			severity: domain.SeverityHigh,
			priority: 8,
			message:  "UGT1A1 *28/*28: reduced irinotecan glucuronidation",
		},
		poorOnly: true,
	},
	{
		gene:  "TPMT",
		drugs: []domain.DrugIdentity{domain.DrugMercaptopurine, domain.DrugAzathioprine},
		poor: geneticOutcome{
			factor:   0.1,
			severity: domain.SeverityCritical,
			priority: 10,
			message:  "TPMT poor metabolizer: life-threatening myelosuppression risk at standard thiopurine doses",
		},
		inter: geneticOutcome{
			factor:   0.5,
			severity: domain.SeverityHigh,
			priority: 9,
			message:  "TPMT intermediate metabolizer: elevated thiopurine myelosuppression risk",
		},
	},
}

func (e *geneticEvaluator) Evaluate(patient *domain.PatientProfile, rx Prescription) FactorResult {
	var result FactorResult

	for _, record := range patient.Genetics {
		rule, ok := matchPgxRule(record.GeneSymbol, rx.Identity)
		if !ok {
			continue
		}

		outcome, matched := classifyGenotype(rule, record)
		if !matched {
			continue
		}

		result.Factors = append(result.Factors, AppliedFactor{
			Factor:     outcome.factor,
			Reason:     outcome.message,
			Confidence: domain.ConfidenceHigh,
			References: []string{fmt.Sprintf("CPIC %s dosing guideline", rule.gene)},
		})
		result.Alerts = append(result.Alerts, domain.DoseCalculationAlert{
			ID:                 newAlertID(),
			Type:               domain.AlertDosing,
			Severity:           outcome.severity,
			Message:            outcome.message,
			Details:            fmt.Sprintf("Gene %s, phenotype %q, metabolizer status %q", record.GeneSymbol, record.Phenotype, record.MetabolizerStatus),
			RecommendedAction:  fmt.Sprintf("Reduce dose to %.0f%% of standard and titrate to tolerance", outcome.factor*100),
			AffectedMedication: rx.Name,
			Category:           domain.CategoryGenetic,
			Source:             e.Name(),
			Priority:           outcome.priority,
		})
	}

	return result
}

func matchPgxRule(geneSymbol string, drug domain.DrugIdentity) (pgxRule, bool) {
	for _, rule := range pgxRules {
		if !strings.EqualFold(geneSymbol, rule.gene) {
			continue
		}
		for _, d := range rule.drugs {
			if d == drug {
				return rule, true
			}
		}
	}
	return pgxRule{}, false
}

// classifyGenotype maps a genetic record's phenotype/status text onto the
// rule's outcome. "Poor" and "deficient" wording (or the UGT1A1 *28/*28
// genotype) selects the poor outcome; "intermediate" selects the
// intermediate outcome where the rule has one.
func classifyGenotype(rule pgxRule, record domain.GeneticRecord) (geneticOutcome, bool) {
	phenotype := strings.ToLower(record.Phenotype)
	status := strings.ToLower(record.MetabolizerStatus)

	isPoor := strings.Contains(phenotype, "poor") || strings.Contains(status, "poor") ||
		strings.Contains(phenotype, "deficien") || strings.Contains(status, "deficien") ||
		strings.Contains(phenotype, "*28/*28")
	if isPoor {
		return rule.poor, true
	}

	if rule.poorOnly {
		return geneticOutcome{}, false
	}

	if strings.Contains(phenotype, "intermediate") || strings.Contains(status, "intermediate") {
		return rule.inter, true
	}

	return geneticOutcome{}, false
}
