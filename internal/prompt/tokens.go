package prompt

// EstimateTokens approximates the token count of text as one token per
// four bytes, rounded up. The same estimate feeds the budget check and
// every reporting surface, so numbers stay comparable across them.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
