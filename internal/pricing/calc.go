package pricing

// Cost converts raw token counts into USD using the given price entry.
// Prices are per 1,000 tokens. Negative counts are treated as zero, so a
// provider reporting garbage can never produce a negative charge.
func Cost(inputTokens, outputTokens int64, e Entry) float64 {
	if inputTokens < 0 {
		inputTokens = 0
	}
	if outputTokens < 0 {
		outputTokens = 0
	}
	return float64(inputTokens)/1000*e.Input + float64(outputTokens)/1000*e.Output
}
