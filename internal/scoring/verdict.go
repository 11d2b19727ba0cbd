package scoring

// Verdict is the binary outcome of thresholding a score or posterior.
type Verdict string

const (
	VerdictVerified Verdict = "VERIFIED"
	VerdictFailed   Verdict = "FAILED"
)

// verdictFor applies the inclusive threshold rule: equality verifies.
func verdictFor(value, threshold float64) Verdict {
	if value >= threshold {
		return VerdictVerified
	}
	return VerdictFailed
}
