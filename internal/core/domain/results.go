package domain

// OptionTally is the vote outcome for a single voting option. Entries are
// ordered by option index, never by vote count, so the ordering reveals
// nothing about which answer drew attention.
type OptionTally struct {
	Index      int     `json:"index"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Results is the summary produced when voting closes.
type Results struct {
	ChatID      int64         `json:"chat_id"`
	Options     []string      `json:"options"`
	Entries     []OptionTally `json:"entries"`
	TotalVotes  int           `json:"total_votes"`
	DecoyAnswer string        `json:"decoy_answer"`
}
