package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteDoublesEmbeddedBacktick(t *testing.T) {
	require := require.New(t)

	require.Equal("`id`", Quote("id"))
	require.Equal("`a``b`", Quote("a`b"))
}

func TestQuoteAllPreservesOrder(t *testing.T) {
	require := require.New(t)

	require.Equal([]string{"`id`", "`email`"}, QuoteAll([]string{"id", "email"}))
}

func TestPlaceholders(t *testing.T) {
	require := require.New(t)

	require.Equal("", Placeholders(0))
	require.Equal("?", Placeholders(1))
	require.Equal("?, ?, ?", Placeholders(3))
}

func TestEqualsAndIsNullClause(t *testing.T) {
	require := require.New(t)

	require.Equal("`id` = ?", equalsClause("id"))
	require.Equal("`id` IS NULL", isNullClause("id"))
}

func TestAndJoin(t *testing.T) {
	require := require.New(t)

	require.Equal("`a` = ? AND `b` = ?", andJoin([]string{"`a` = ?", "`b` = ?"}))
}
