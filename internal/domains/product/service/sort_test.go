package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortModeNextCycles(t *testing.T) {
	assert.Equal(t, SortCostAscending, SortNone.Next())
	assert.Equal(t, SortCostDescending, SortCostAscending.Next())
	assert.Equal(t, SortNone, SortCostDescending.Next())
}

func TestSortModeString(t *testing.T) {
	assert.Equal(t, "none", SortNone.String())
	assert.Equal(t, "cost_asc", SortCostAscending.String())
	assert.Equal(t, "cost_desc", SortCostDescending.String())
}
