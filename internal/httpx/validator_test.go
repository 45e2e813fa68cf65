package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupParams struct {
	Title  string `query:"title" validate:"required_without=ISBN,max=20"`
	Author string `query:"author" validate:"max=20"`
	ISBN   string `query:"isbn" validate:"omitempty,isbn"`
}

func TestValidate_Valid(t *testing.T) {
	assert.Nil(t, Validate(lookupParams{Title: "Dune"}))
	assert.Nil(t, Validate(lookupParams{ISBN: "978-0-441-17271-9"}))
	assert.Nil(t, Validate(lookupParams{ISBN: "044117271X"}))
}

func TestValidate_RequiredWithout(t *testing.T) {
	details := Validate(lookupParams{Author: "Frank Herbert"})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
	assert.Contains(t, details[0].Message, "required when")
}

func TestValidate_ISBNShape(t *testing.T) {
	tests := []struct {
		isbn  string
		valid bool
	}{
		{"9780441172719", true},
		{"0 441 17271 7", true},
		{"12345", false},
		{"97804411727AB", false},
	}
	for _, tt := range tests {
		t.Run(tt.isbn, func(t *testing.T) {
			details := Validate(lookupParams{Title: "x", ISBN: tt.isbn})
			if tt.valid {
				assert.Empty(t, details)
				return
			}
			require.Len(t, details, 1)
			assert.Equal(t, "isbn", details[0].Field)
		})
	}
}

func TestValidate_Max(t *testing.T) {
	details := Validate(lookupParams{Title: "a title well over twenty characters"})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "title must be at most 20 characters", details[0].Message)
}
