package wenyan_test

import (
	"testing"

	"github.com/fwojciec/wenyan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Validate(t *testing.T) {
	t.Parallel()

	t.Run("word in context", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, wenyan.Query{Word: "习", Context: "学而时习之"}.Validate())
	})

	t.Run("empty word", func(t *testing.T) {
		t.Parallel()
		err := wenyan.Query{Word: " ", Context: "学而时习之"}.Validate()
		assert.ErrorIs(t, err, wenyan.ErrValidation)
	})

	t.Run("word missing from context", func(t *testing.T) {
		t.Parallel()
		err := wenyan.Query{Word: "善", Context: "学而时习之"}.Validate()
		assert.ErrorIs(t, err, wenyan.ErrValidation)
	})
}

func TestSearchTarget_Valid(t *testing.T) {
	t.Parallel()
	for _, target := range []wenyan.SearchTarget{wenyan.SearchNone, wenyan.SearchSentence, wenyan.SearchParagraph, wenyan.SearchFullText} {
		assert.True(t, target.Valid(), target)
	}
	assert.False(t, wenyan.SearchTarget("chapter").Valid())
}
