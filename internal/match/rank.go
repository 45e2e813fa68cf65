package match

import (
	"errors"
	"fmt"

	"bookmeta/internal/entity"
)

// Weights controls how candidates are scored and when a match is accepted.
type Weights struct {
	TitleWeight    float64 `yaml:"title_weight"`
	AuthorWeight   float64 `yaml:"author_weight"`
	EditionCap     int     `yaml:"edition_cap"`
	EditionDivisor float64 `yaml:"edition_divisor"`
	Threshold      float64 `yaml:"threshold"`
	// FoldAccents compares "Años" as "anos" instead of "a os". Off by default.
	FoldAccents bool `yaml:"fold_accents"`
}

// DefaultWeights returns the tuned production weights. The edition bonus is
// capped at EditionCap/EditionDivisor = 0.1.
func DefaultWeights() Weights {
	return Weights{
		TitleWeight:    0.75,
		AuthorWeight:   0.25,
		EditionCap:     20,
		EditionDivisor: 200,
		Threshold:      0.55,
	}
}

func (w Weights) Validate() error {
	if w.TitleWeight < 0 || w.AuthorWeight < 0 {
		return errors.New("match weights must not be negative")
	}
	if w.TitleWeight+w.AuthorWeight == 0 {
		return errors.New("title and author weights are both zero")
	}
	if w.EditionCap < 0 {
		return fmt.Errorf("edition cap must not be negative, got %d", w.EditionCap)
	}
	if w.EditionDivisor <= 0 {
		return fmt.Errorf("edition divisor must be positive, got %v", w.EditionDivisor)
	}
	if w.Threshold <= 0 || w.Threshold > 2 {
		return fmt.Errorf("threshold must be in (0, 2], got %v", w.Threshold)
	}
	return nil
}

// Ranker picks the best candidate for a query. It holds no mutable state.
type Ranker struct {
	w Weights
}

func NewRanker(w Weights) *Ranker {
	return &Ranker{w: w}
}

func (r *Ranker) Weights() Weights {
	return r.w
}

// Score computes the composite score of c against the query.
func (r *Ranker) Score(c entity.Candidate, title, author string) float64 {
	return r.score(c, title, StripSubtitle(title), author)
}

func (r *Ranker) score(c entity.Candidate, title, baseTitle, author string) float64 {
	if r.w.FoldAccents {
		title, baseTitle, author = FoldAccents(title), FoldAccents(baseTitle), FoldAccents(author)
		c.Title = FoldAccents(c.Title)
		authors := make([]string, len(c.Authors))
		for i, a := range c.Authors {
			authors[i] = FoldAccents(a)
		}
		c.Authors = authors
	}
	ts := max(TitleSimilarity(c.Title, title), TitleSimilarity(c.Title, baseTitle))
	as := AuthorScore(c.Authors, author)
	return r.w.TitleWeight*ts + r.w.AuthorWeight*as + r.editionBonus(c.EditionCount)
}

func (r *Ranker) editionBonus(editions int) float64 {
	if editions <= 0 {
		return 0
	}
	return float64(min(editions, r.w.EditionCap)) / r.w.EditionDivisor
}

// Accepts reports whether score clears the acceptance threshold.
func (r *Ranker) Accepts(score float64) bool {
	return score >= r.w.Threshold
}

// Best returns the highest scoring candidate and its score. Ties go to the
// candidate seen first. ok is false when no candidate clears the threshold;
// the best score is still returned for diagnostics.
func (r *Ranker) Best(cands []entity.Candidate, title, author string) (best entity.Candidate, score float64, ok bool) {
	if len(cands) == 0 {
		return entity.Candidate{}, 0, false
	}

	baseTitle := StripSubtitle(title)
	bestIdx := -1
	score = -1
	for i, c := range cands {
		if s := r.score(c, title, baseTitle, author); s > score {
			bestIdx, score = i, s
		}
	}
	if !r.Accepts(score) {
		return entity.Candidate{}, score, false
	}
	return cands[bestIdx], score, true
}
