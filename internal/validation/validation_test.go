package validation

import (
	"testing"

	"hedwig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstitutionalEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "jane@skasc.ac.in", false},
		{"Mixed Case", "Jane@SKASC.ac.in", false},
		{"Other Domain", "x@otherdomain.com", true},
		{"Suffix Without At", "jane.skasc.ac.in", true},
		{"Lookalike Domain", "jane@notskasc.ac.in", true},
		{"Only Domain", "@skasc.ac.in", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InstitutionalEmail(tt.email, "skasc.ac.in")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.HasCode(err, models.CodeValidation))
				assert.ErrorIs(t, err, ErrInvalidEmailDomain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInstitutionalEmail_EmptyDomainAllowsAll(t *testing.T) {
	assert.NoError(t, InstitutionalEmail("x@otherdomain.com", ""))
}

type sample struct {
	Category models.Category     `validate:"required,category"`
	Reaction models.ReactionType `validate:"omitempty,reaction"`
	Stars    int                 `validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Struct(sample{Category: models.CategoryTech, Stars: 3}))

	err := Struct(sample{Category: "bogus", Stars: 3})
	require.Error(t, err)
	assert.Equal(t, "Category must be a known category", err.(*models.AppError).Message)

	err = Struct(sample{Category: models.CategoryTech, Stars: 6})
	require.Error(t, err)
	assert.Equal(t, "Stars must be at most 5", err.(*models.AppError).Message)

	err = Struct(sample{Category: models.CategoryTech, Reaction: "meh", Stars: 1})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeValidation))
}
