package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		wantErr  bool
	}{
		{"valid", "sunny123", false},
		{"valid korean", "청년정책러", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", "abcdefghijklmnopqrstu", true},
		{"forbidden english", "FuckYou", true},
		{"forbidden korean", "씨발이", true},
		{"forbidden embedded", "iamadminhere", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNickname(tt.nickname)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsForbiddenNickname_CaseInsensitive(t *testing.T) {
	assert.True(t, IsForbiddenNickname("SHIThead"))
	assert.False(t, IsForbiddenNickname("friendly"))
}

func TestNormalizeStringSlice(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeStringSlice(nil))
	assert.Equal(t, []string{"housing"}, NormalizeStringSlice([]string{"housing"}))
}
