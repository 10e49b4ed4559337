// Package voting holds the pure randomization and scoring logic of the game:
// building the anonymized option list and tallying votes. Keeping it free of
// session state makes the fairness properties directly testable.
package voting

import (
	"math/rand/v2"

	"github.com/botornot/api/internal/core/domain"
)

// BuildOptions concatenates the participant answers with the decoy and
// applies a uniform random permutation. Every permutation of the combined
// list is equally likely, so the output carries no positional hint about
// which entry is the decoy.
func BuildOptions(answers []string, decoy string) []string {
	options := make([]string, 0, len(answers)+1)
	options = append(options, answers...)
	options = append(options, decoy)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Tally produces one entry per option index, ascending, with the vote count
// and its percentage of all votes cast. With zero votes every percentage is
// 0 rather than a division error.
func Tally(votes map[int]int, optionCount int) []domain.OptionTally {
	total := 0
	for _, n := range votes {
		total += n
	}

	entries := make([]domain.OptionTally, 0, optionCount)
	for i := 0; i < optionCount; i++ {
		count := votes[i]
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		entries = append(entries, domain.OptionTally{Index: i, Count: count, Percentage: pct})
	}
	return entries
}
