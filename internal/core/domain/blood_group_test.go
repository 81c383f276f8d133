package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloodGroups_ClosedSetOfEight(t *testing.T) {
	require.Len(t, BloodGroups, 8)

	seen := make(map[BloodGroup]bool)
	for _, g := range BloodGroups {
		assert.False(t, seen[g], "duplicate group %s", g)
		seen[g] = true
		assert.True(t, g.Valid())
	}
}

func TestParseBloodGroup(t *testing.T) {
	tests := []struct {
		in      string
		want    BloodGroup
		wantErr bool
	}{
		{in: "O+", want: OPositive},
		{in: "AB-", want: ABNegative},
		{in: "ab+", wantErr: true},
		{in: "C+", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBloodGroup(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())
	assert.NoError(t, verr.OrNil())

	verr.Add("phone", "This field is required.")
	verr.Add("city", "This field is required.")
	verr.Add("phone", "ignored second message")

	require.Error(t, verr.OrNil())
	assert.Equal(t, "This field is required.", verr.Fields["phone"])
	assert.Equal(t, "validation failed: city: This field is required.; phone: This field is required.", verr.Error())
}
