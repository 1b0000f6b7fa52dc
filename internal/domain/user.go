package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// User is a registered member. Email and nickname are unique.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Nickname         string    `json:"nickname"`
	PasswordHash     string    `json:"-"`
	BirthDate        string    `json:"birth_date,omitempty"`
	Region           string    `json:"region,omitempty"`
	IncomeBand       string    `json:"income_band,omitempty"`
	Education        string    `json:"education,omitempty"`
	MaritalStatus    string    `json:"marital_status,omitempty"`
	Major            string    `json:"major,omitempty"`
	EmploymentStatus []string  `json:"employment_status,omitempty"`
	SpecialGroup     []string  `json:"special_group,omitempty"`
	Interests        []string  `json:"interests,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Profile carries the editable subset of a user's attributes.
type Profile struct {
	Region           string   `json:"region"`
	IncomeBand       string   `json:"income_band"`
	Education        string   `json:"education"`
	MaritalStatus    string   `json:"marital_status"`
	Major            string   `json:"major"`
	EmploymentStatus []string `json:"employment_status"`
	SpecialGroup     []string `json:"special_group"`
	Interests        []string `json:"interests"`
}

// forbiddenNicknameWords are rejected as substrings, case-insensitively.
var forbiddenNicknameWords = []string{
	"fuck", "shit", "bitch", "admin", "운영자", "씨발", "병신", "지랄", "개새", "좆", "씹",
}

// ValidateNickname rejects empty, overlong, or offensive nicknames.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return apperrors.InvalidInput("nickname must not be empty")
	}
	if len([]rune(trimmed)) > 20 {
		return apperrors.InvalidInput("nickname must be at most 20 characters")
	}
	if IsForbiddenNickname(trimmed) {
		return apperrors.InvalidInput("nickname contains a forbidden word")
	}
	return nil
}

// IsForbiddenNickname reports whether the nickname contains a blacklisted word.
func IsForbiddenNickname(nickname string) bool {
	lowered := strings.ToLower(nickname)
	for _, word := range forbiddenNicknameWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// NormalizeStringSlice turns a nil slice into an empty one so profile arrays
// are stored and returned consistently.
func NormalizeStringSlice(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
