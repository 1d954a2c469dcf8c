package classify

import "strings"

// Level is a coarse threat level for a bucket of items.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelRed    Level = "red"
)

// Rank orders levels for escalation comparison: green < yellow < red.
func (l Level) Rank() int {
	switch l {
	case LevelRed:
		return 2
	case LevelYellow:
		return 1
	default:
		return 0
	}
}

// DefaultCriticalPhrases trigger a red level when present.
var DefaultCriticalPhrases = []string{
	"imminent", "hours away", "preparing to strike", "war declared",
}

// DefaultElevatedPhrases trigger a yellow level when present.
var DefaultElevatedPhrases = []string{
	"tensions rising", "troops deployed", "military buildup",
}

// Assessor derives a threat level from the text of a bucket's items.
//
// The decision is presence-based: each phrase counts at most once no
// matter how often it repeats, which keeps the result stable under item
// duplication and under permutation of the input.
type Assessor struct {
	critical    []string
	elevated    []string
	criticalMin int
}

// NewAssessor creates an assessor. Nil phrase lists select the
// defaults. criticalMin is the number of distinct critical phrases
// required for red; values below 1 mean 1 (red on any critical phrase).
func NewAssessor(critical, elevated []string, criticalMin int) *Assessor {
	if critical == nil {
		critical = DefaultCriticalPhrases
	}
	if elevated == nil {
		elevated = DefaultElevatedPhrases
	}
	if criticalMin < 1 {
		criticalMin = 1
	}
	return &Assessor{
		critical:    lowerPhrases(critical),
		elevated:    lowerPhrases(elevated),
		criticalMin: criticalMin,
	}
}

// Assess returns the threat level for a bucket. Each element of texts
// is one item's title and description. An empty bucket is green.
func (a *Assessor) Assess(texts []string) Level {
	if len(texts) == 0 {
		return LevelGreen
	}

	corpus := strings.ToLower(strings.Join(texts, " "))

	if distinctPresent(corpus, a.critical) >= a.criticalMin {
		return LevelRed
	}
	if distinctPresent(corpus, a.elevated) >= 1 {
		return LevelYellow
	}
	return LevelGreen
}

func distinctPresent(corpus string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(corpus, p) {
			n++
		}
	}
	return n
}

func lowerPhrases(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(p)
	}
	return out
}
