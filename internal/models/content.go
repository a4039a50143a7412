package models

import "fmt"

// QuizOptionCount is the number of answer options every quiz item carries.
const QuizOptionCount = 4

// QuizItem is a multiple-choice question from the static pool.
type QuizItem struct {
	Question string   `yaml:"question" json:"question"`
	Options  []string `yaml:"options" json:"options"`
	Correct  string   `yaml:"correct" json:"correct"`
}

// Validate checks the item has exactly four distinct options and that the
// correct answer matches exactly one of them.
func (q QuizItem) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("quiz item has no question")
	}
	if len(q.Options) != QuizOptionCount {
		return fmt.Errorf("quiz %q: want %d options, got %d", q.Question, QuizOptionCount, len(q.Options))
	}

	seen := make(map[string]bool, len(q.Options))
	matches := 0
	for _, opt := range q.Options {
		if seen[opt] {
			return fmt.Errorf("quiz %q: duplicate option %q", q.Question, opt)
		}
		seen[opt] = true
		if opt == q.Correct {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("quiz %q: correct answer %q not among options", q.Question, q.Correct)
	}
	return nil
}

// IsCorrect reports whether option is the designated answer.
func (q QuizItem) IsCorrect(option string) bool {
	return option == q.Correct
}
