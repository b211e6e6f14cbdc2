package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

func sample() *Catalog {
	return New([]domain.Ingredient{
		{ID: 3, Name: "Broccoli"},
		{ID: 1, Name: "chicken"},
		{ID: 2, Name: "  Brown   Rice "},
	})
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "olive oil", Canonicalize("  Olive\tOIL  "))
	assert.Equal(t, "", Canonicalize("   "))
}

func TestResolve(t *testing.T) {
	c := sample()

	id, err := c.Resolve("CHICKEN ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = c.Resolve("brown rice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}

func TestResolveIsExact(t *testing.T) {
	c := sample()

	_, err := c.Resolve("chick")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ingredient", nf.Kind)
	assert.Equal(t, "chick", nf.Key)
}

func TestNameOf(t *testing.T) {
	c := sample()

	name, err := c.NameOf(3)
	require.NoError(t, err)
	assert.Equal(t, "broccoli", name)

	_, err = c.NameOf(99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDuplicateCanonicalNameKeepsLowestID(t *testing.T) {
	c := New([]domain.Ingredient{
		{ID: 9, Name: "Garlic"},
		{ID: 4, Name: "garlic"},
	})

	id, err := c.Resolve("GARLIC")
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, 1, c.Len())
}
