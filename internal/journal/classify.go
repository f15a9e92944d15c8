package journal

import (
	"strings"

	"github.com/newthinker/traderstats/internal/core"
)

// Classifier decides what a row's type text means. Swap it to support
// brokers that label rows differently.
type Classifier interface {
	Kind(typeText string) core.RowKind
	Direction(entryTypeText string) core.Direction
}

// TypeTextClassifier matches "entry", "exit" and "long" as case-insensitive
// substrings. Entry is checked before exit.
type TypeTextClassifier struct{}

func (TypeTextClassifier) Kind(typeText string) core.RowKind {
	s := strings.ToLower(typeText)
	switch {
	case strings.Contains(s, "entry"):
		return core.RowEntry
	case strings.Contains(s, "exit"):
		return core.RowExit
	default:
		return core.RowUnclassified
	}
}

func (TypeTextClassifier) Direction(entryTypeText string) core.Direction {
	if strings.Contains(strings.ToLower(entryTypeText), "long") {
		return core.DirectionLong
	}
	return core.DirectionShort
}
