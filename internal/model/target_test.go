package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetKind(t *testing.T) {
	for _, s := range []string{"general", "event", "campaign"} {
		k, err := ParseTargetKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, TargetKind(s), k)
	}
	for _, s := range []string{"CAMPAIGN", "Campaign", "Event", " event", "general ", "", "festival"} {
		_, err := ParseTargetKind(s)
		assert.Error(t, err, "%q", s)
	}
}
