package entity

import "strings"

// MaxSubjects is the number of subject tags kept on a Resolution.
const MaxSubjects = 5

// Resolution is the best-known metadata for a Query. Empty fields are unknown.
type Resolution struct {
	CoverURL string `json:"cover_url,omitempty"`
	ISBN     string `json:"isbn,omitempty"`
	Subjects string `json:"subjects,omitempty"`
}

// Empty reports whether nothing was resolved.
func (r Resolution) Empty() bool {
	return r.CoverURL == "" && r.ISBN == "" && r.Subjects == ""
}

// HasCover reports whether a cover locator was found.
func (r Resolution) HasCover() bool {
	return r.CoverURL != ""
}

// JoinSubjects joins the first MaxSubjects non-blank tags with ", ".
func JoinSubjects(subjects []string) string {
	kept := make([]string, 0, MaxSubjects)
	for _, s := range subjects {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, s)
		if len(kept) == MaxSubjects {
			break
		}
	}
	return strings.Join(kept, ", ")
}
