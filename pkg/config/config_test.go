package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustodyConfig_IsOperator(t *testing.T) {
	c := CustodyConfig{SystemAccount: "donations.core", Operators: []string{"ops.near"}}

	assert.True(t, c.IsOperator("donations.core"))
	assert.True(t, c.IsOperator("ops.near"))
	assert.False(t, c.IsOperator("alice.near"))
	assert.False(t, c.IsOperator(""))
}
