package model

// ImportRowError pinpoints one rejected row of a bulk question import.
// Row numbering is 1-based and counts the header row for tabular formats.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport is the outcome of a bulk question import: every row is
// accounted for as either imported or failed with a reason.
type ImportReport struct {
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

// ImportQuestionRow is one row of a JSON bulk import payload.
type ImportQuestionRow struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correctOption"`
	Department    string   `json:"department"`
	Subject       string   `json:"subject"`
	Difficulty    string   `json:"difficulty"`
}
