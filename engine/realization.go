package engine

// ============================================================================
// PAYMENT REALIZATION — classify open pipeline by likelihood of payment
// ============================================================================

// realizationTiers fixes the output order of SummarizeRealization.
var realizationTiers = []Probability{ProbabilityHigh, ProbabilityMedium, ProbabilityLow}

// ProbabilityForStage maps a payment stage to its realization tier.
func ProbabilityForStage(stage string) Probability {
	switch stage {
	case PaymentApproved:
		return ProbabilityHigh
	case PaymentProcessing:
		return ProbabilityMedium
	default:
		return ProbabilityLow
	}
}

// CalculatePaymentRealization classifies every pipeline record whose expected
// close date is set and no later than now + the realization horizon. Records
// already past their close date are included. Input order is preserved.
func CalculatePaymentRealization(pipeline []ProcessedRecord, opts ...Option) []RealizationEntry {
	cfg := applyOptions(opts)
	threshold := cfg.Now.AddDate(0, 0, cfg.RealizationDays)

	out := make([]RealizationEntry, 0, len(pipeline))
	for _, p := range pipeline {
		if p.ExpectedCloseDate == nil || p.ExpectedCloseDate.After(threshold) {
			continue
		}
		out = append(out, RealizationEntry{
			Amount:      finite(p.Amount),
			Probability: ProbabilityForStage(p.Stage),
		})
	}
	return out
}

// SummarizeRealization totals entries per tier. All three tiers are returned,
// high first.
func SummarizeRealization(entries []RealizationEntry) []RealizationBucket {
	index := make(map[Probability]int, len(realizationTiers))
	buckets := make([]RealizationBucket, len(realizationTiers))
	for i, tier := range realizationTiers {
		index[tier] = i
		buckets[i].Probability = tier
	}
	for _, e := range entries {
		i, ok := index[e.Probability]
		if !ok {
			i = index[ProbabilityLow]
		}
		buckets[i].Amount += e.Amount
		buckets[i].Count++
	}
	for i := range buckets {
		buckets[i].Amount = round2(buckets[i].Amount)
	}
	return buckets
}
