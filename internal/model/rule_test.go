package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("-"))
	assert.True(t, IsPlaceholder("–"))
	assert.True(t, IsPlaceholder("  –  "))
	assert.False(t, IsPlaceholder("NOHEPA"))
	assert.False(t, IsPlaceholder("0"))
}

func TestFlagSet(t *testing.T) {
	assert.True(t, FlagSet("ano"))
	assert.True(t, FlagSet("ANO"))
	assert.True(t, FlagSet("yes"))
	assert.True(t, FlagSet("1"))
	assert.True(t, FlagSet(" ano "))
	assert.False(t, FlagSet("ne"))
	assert.False(t, FlagSet(""))
	assert.False(t, FlagSet("Aloe"))
}

func TestFlagNegative(t *testing.T) {
	assert.True(t, FlagNegative("ne"))
	assert.True(t, FlagNegative("NE"))
	assert.True(t, FlagNegative("no"))
	assert.True(t, FlagNegative("0"))
	assert.True(t, FlagNegative(" ne "))
	assert.False(t, FlagNegative("ano"))
	assert.False(t, FlagNegative(""))
	assert.False(t, FlagNegative("Aloe"))
}

func TestSplitCell(t *testing.T) {
	assert.Equal(t, []string{"BEST FRIEND", "LEVANDULE"}, SplitCell("BEST FRIEND, LEVANDULE"))
	assert.Equal(t, []string{"2288"}, SplitCell("2288"))
	assert.Nil(t, SplitCell("–"))
	assert.Nil(t, SplitCell(""))
	// Placeholder parts inside a list are dropped too.
	assert.Equal(t, []string{"NOHEPA"}, SplitCell("NOHEPA, –"))
}
