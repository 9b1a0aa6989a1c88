package screening

import (
	"math"

	pstrings "riskscreen/pkg/platform/strings"
)

// evidenceScore is the deterministic floor: the weights of every triggered
// category, each counted once, as a fraction of 100 capped at 1. Financial
// risk has no core signal and is left to the generator.
func evidenceScore(b EvidenceBundle, w WeightTable, highRisk map[string]struct{}) float64 {
	total := 0
	if b.Payer.Sanctioned() || b.Receiver.Sanctioned() {
		total += w.Sanctions
	}
	if b.Payer.HasNegativeNews() || b.Receiver.HasNegativeNews() {
		total += w.AdverseMedia
	}
	if isHighRisk(highRisk, b.Transaction.PayerCountry) || isHighRisk(highRisk, b.Transaction.ReceiverCountry) {
		total += w.CountryRisk
	}

	var shSanctioned, shNews bool
	for _, side := range [][]EntityEvidence{b.PayerShareholders, b.ReceiverShareholders} {
		for _, sh := range side {
			shSanctioned = shSanctioned || sh.Sanctioned()
			shNews = shNews || sh.HasNegativeNews()
		}
	}
	if shSanctioned {
		total += w.ShareholderSanctions
	}
	if shNews {
		total += w.ShareholderNegativeNews
	}
	return math.Min(1, float64(total)/100)
}

func highRiskSet(countries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		if key := pstrings.NormalizeName(c); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func isHighRisk(set map[string]struct{}, country string) bool {
	if len(set) == 0 {
		return false
	}
	_, ok := set[pstrings.NormalizeName(country)]
	return ok
}

// normalizeScore maps a generator score onto [0,1]. Scores on a 0..100 scale
// are divided down; NaN becomes 0.
func normalizeScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > 1 && v <= 100 {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}
