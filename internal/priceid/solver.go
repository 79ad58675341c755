package priceid

// Outcome classifies a narrowing step.
type Outcome int

const (
	// Unchanged: the observation is consistent with, and adds nothing to,
	// what was already known.
	Unchanged Outcome = iota
	// Narrowed: some candidates were eliminated, more than one remains.
	Narrowed
	// Resolved: exactly one candidate remains.
	Resolved
	// Contradiction: the observation is inconsistent with every remaining
	// candidate. The prior set is preserved; the observation most likely
	// reflects a price multiplier the model does not cover, or garbled
	// input.
	Contradiction
)

// Narrow intersects a prior candidate set with the identities consistent
// with a new observation. A nil or empty prior means this is the first
// observation for the instance, so the observed set is adopted as-is.
// Order of the prior set is preserved.
func Narrow(prior, observed []string) ([]string, Outcome) {
	if len(observed) == 0 {
		if len(prior) == 0 {
			return prior, Unchanged
		}
		return prior, Contradiction
	}
	if len(prior) == 0 {
		return observed, outcomeFor(len(observed), false)
	}

	allowed := make(map[string]bool, len(observed))
	for _, c := range observed {
		allowed[c] = true
	}
	kept := make([]string, 0, len(prior))
	for _, c := range prior {
		if allowed[c] {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return prior, Contradiction
	}
	return kept, outcomeFor(len(kept), len(kept) == len(prior))
}

func outcomeFor(n int, unchanged bool) Outcome {
	switch {
	case n == 1:
		return Resolved
	case unchanged:
		return Unchanged
	default:
		return Narrowed
	}
}
