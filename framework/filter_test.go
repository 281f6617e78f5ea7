package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path ...string) TestID { return TestID{Path: path} }

func TestRegexFiltersMatchEverythingByDefault(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(id("object storage", "object round trip")))
}

func TestRegexFiltersMustMatch(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("storage"))

	assert.True(t, filters.AsFilter(id("object storage", "container lifecycle")))
	assert.False(t, filters.AsFilter(id("health")))
}

func TestRegexFiltersMustNotMatch(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("delivery"))

	assert.False(t, filters.AsFilter(id("delivery streams", "put record")))
	assert.True(t, filters.AsFilter(id("health")))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
	assert.False(t, list.IsDefined())
}
