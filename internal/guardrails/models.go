package guardrails

type ValidationResult struct {
	IsValid  bool   // true = allowed ; false = blocked
	Reason   string // Why the question was blocked
	Category string // "toxic", "off_topic", "pii", "prompt_injection", "too_long"
	Method   string // "static" or "llm"
}
