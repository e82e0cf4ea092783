package engine

import "github.com/chemo-dose-safety-server/internal/domain"

// monitoringRecommendations collects the scheduled monitoring a drug
// requires. Recommendations are driven purely by drug identity; patient
// data does not change the schedule.
func monitoringRecommendations(drug domain.DrugIdentity) []domain.MonitoringRecommendation {
	var recs []domain.MonitoringRecommendation
	for _, rule := range monitoringRules {
		for _, d := range rule.drugs {
			if d == drug {
				recs = append(recs, rule.recommendation)
				break
			}
		}
	}
	return recs
}
