package engine

import "github.com/chemo-dose-safety-server/internal/domain"

// Static rule and threshold tables. All tables are initialized at compile
// time and must never be mutated at runtime; they are the only state the
// engine shares between invocations.

// Renal function cutoffs, CrCl in mL/min.
const (
	crclSevere   = 30.0
	crclModerate = 50.0
	crclMild     = 80.0
)

// Hepatic cutoffs. AST/ALT in U/L, bilirubin in mg/dL.
const (
	astAltSevere   = 120.0
	astAltModerate = 80.0
	astAltMild     = 40.0

	bilirubinSevere   = 3.0
	bilirubinModerate = 2.0
	bilirubinMild     = 1.2
)

// Hematologic and cardiac lab cutoffs. ANC in cells/µL, platelets in
// 10^9/L, LVEF in percent.
const (
	ancHold    = 1000.0
	ancCaution = 1500.0

	plateletHold    = 50.0
	plateletCaution = 100.0

	lvefHold    = 40.0
	lvefCaution = 50.0
)

// Body habitus cutoffs.
const (
	bmiUnderweight = 18.5
	bmiObese       = 30.0
)

// severityDeductions maps alert severity to its safety-score deduction.
// Deductions are additive per alert with no cap; the score floors at zero.
var severityDeductions = map[domain.AlertSeverity]int{
	domain.SeverityCritical: 30,
	domain.SeverityHigh:     20,
	domain.SeverityModerate: 10,
	domain.SeverityLow:      5,
}

// contraindicationRule pairs a condition-name substring with the drug it
// contraindicates.
type contraindicationRule struct {
	conditionSubstring string
	drug               domain.DrugIdentity
	severity           domain.AlertSeverity
	priority           int
	category           domain.AlertCategory
	message            string
	action             string
}

var contraindicationRules = []contraindicationRule{
	{
		conditionSubstring: "heart failure",
		drug:               domain.DrugDoxorubicin,
		severity:           domain.SeverityCritical,
		priority:           10,
		category:           domain.CategoryCardiac,
		message:            "Doxorubicin is contraindicated in patients with heart failure",
		action:             "Select an alternative non-anthracycline regimen",
	},
	{
		conditionSubstring: "renal failure",
		drug:               domain.DrugCisplatin,
		severity:           domain.SeverityCritical,
		priority:           10,
		category:           domain.CategoryRenal,
		message:            "Cisplatin is contraindicated in patients with renal failure",
		action:             "Avoid cisplatin; consider carboplatin with renal dosing",
	},
	{
		conditionSubstring: "hearing loss",
		drug:               domain.DrugCisplatin,
		severity:           domain.SeverityHigh,
		priority:           8,
		category:           domain.CategoryGeneral,
		message:            "Cisplatin ototoxicity may worsen pre-existing hearing loss",
		action:             "Obtain baseline audiometry and discuss alternatives",
	},
	{
		conditionSubstring: "neuropathy",
		drug:               domain.DrugPaclitaxel,
		severity:           domain.SeverityHigh,
		priority:           8,
		category:           domain.CategoryGeneral,
		message:            "Paclitaxel may aggravate pre-existing peripheral neuropathy",
		action:             "Assess neuropathy grade before each cycle; consider dose modification",
	},
}

// monitoringRule maps a drug to one recommended monitoring parameter.
type monitoringRule struct {
	drugs          []domain.DrugIdentity
	recommendation domain.MonitoringRecommendation
}

var monitoringRules = []monitoringRule{
	{
		drugs: []domain.DrugIdentity{domain.DrugDoxorubicin},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "LVEF (echocardiogram or MUGA)",
			Frequency: "Baseline, then every 3 months during treatment",
			Rationale: "Anthracycline therapy carries cumulative dose-dependent cardiotoxicity",
			Urgency:   domain.UrgencyRoutine,
		},
	},
	{
		drugs: []domain.DrugIdentity{domain.DrugCisplatin},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "Serum creatinine and BUN",
			Frequency: "Before each cycle",
			Rationale: "Cisplatin nephrotoxicity requires renal function verification before dosing",
			Urgency:   domain.UrgencyUrgent,
		},
	},
	{
		drugs: []domain.DrugIdentity{domain.DrugCisplatin},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "Audiometry",
			Frequency: "Baseline and with any reported hearing change",
			Rationale: "Cisplatin ototoxicity is cumulative and often irreversible",
			Urgency:   domain.UrgencyRoutine,
		},
	},
	{
		drugs: []domain.DrugIdentity{domain.DrugCisplatin},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "Serum electrolytes (Mg, K, Ca)",
			Frequency: "Before each cycle and one week after",
			Rationale: "Cisplatin causes renal electrolyte wasting, particularly magnesium",
			Urgency:   domain.UrgencyRoutine,
		},
	},
	{
		drugs: []domain.DrugIdentity{domain.DrugPaclitaxel},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "Peripheral neurologic exam",
			Frequency: "Before each cycle",
			Rationale: "Paclitaxel-induced peripheral neuropathy guides dose modification",
			Urgency:   domain.UrgencyRoutine,
		},
	},
	{
		drugs: []domain.DrugIdentity{domain.DrugCarboplatin, domain.DrugCisplatin, domain.DrugDoxorubicin},
		recommendation: domain.MonitoringRecommendation{
			Parameter: "CBC with differential",
			Frequency: "Before each cycle and at expected nadir",
			Rationale: "Myelosuppression gates every cycle of treatment",
			Urgency:   domain.UrgencyUrgent,
		},
	},
}
