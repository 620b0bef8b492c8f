package runtime

import "strings"

// answer is the reading of a free-text reply to a yes/no question.
type answer int

const (
	answerUnknown answer = iota
	answerYes
	answerNo
)

// Single-letter prefixes of "sim" and "não".
const (
	affirmativePrefix = "s"
	negativePrefix    = "n"
)

func normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// parseAnswer classifies input by its first letter, case-insensitively.
func parseAnswer(input string) answer {
	n := normalize(input)
	switch {
	case strings.HasPrefix(n, affirmativePrefix):
		return answerYes
	case strings.HasPrefix(n, negativePrefix):
		return answerNo
	default:
		return answerUnknown
	}
}
