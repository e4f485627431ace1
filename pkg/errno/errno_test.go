package errno

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"nil", nil, OK.Code, OK.Message},
		{"plain errno", ErrNotFound, ErrNotFound.Code, "not found"},
		{"wrapped errno", fmt.Errorf("campaign water: %w", ErrCampaignNotFound), ErrCampaignNotFound.Code, "campaign water: campaign not found"},
		{"foreign error", errors.New("boom"), InternalServerError.Code, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := Decode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestWithMessageKeepsIdentity(t *testing.T) {
	err := ErrMalformedMemo.WithMessage("memo must have 5 fields")
	assert.True(t, errors.Is(err, ErrMalformedMemo))
	assert.False(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, "memo must have 5 fields", err.Error())
}

func TestClassification(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", ErrEventNotFound)))
	assert.True(t, IsInvalidInput(ErrDuplicateDonation))
	assert.True(t, IsUnauthorized(ErrCallerNotSystem))
	assert.False(t, IsNotFound(errors.New("other")))

	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusNotFound, StatusOf(ErrPartnerNotFound))
	assert.Equal(t, StatusFailed, StatusOf(ErrDuplicate))
}
