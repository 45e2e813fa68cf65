package entity

// Candidate is one search result from a bibliographic source.
type Candidate struct {
	Title        string
	Authors      []string
	EditionCount int
	CoverID      string
	ISBNs        []string
	Subjects     []string
}
