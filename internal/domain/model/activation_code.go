package model

import (
	"strings"
	"time"

	"edu-activation-core/internal/domain"
)

const (
	MinCodeLength = 4
	MaxCodeLength = 12
)

// ActivationCode is a single-use token exchanged for subscription entitlement.
// The normalized code string is the primary key. Once redeemed a code is
// immutable: IsUsed never reverts and level/duration are never edited.
type ActivationCode struct {
	Code         string     `json:"code"`
	Level        Level      `json:"level,omitempty"` // empty = no level override on redemption
	DurationDays int        `json:"durationDays"`
	BatchID      string     `json:"batchId,omitempty"` // empty for manually issued codes
	IsUsed       bool       `json:"isUsed"`
	UsedBy       *string    `json:"usedBy,omitempty"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NormalizeCode applies the canonical form used for storage and lookup.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidCodeFormat reports whether a normalized code is within bounds.
func ValidCodeFormat(code string) bool {
	return len(code) >= MinCodeLength && len(code) <= MaxCodeLength
}

// NewActivationCode validates and constructs an unused code. level may be
// empty for codes that keep the redeeming account's current level.
func NewActivationCode(code string, level Level, durationDays int) (*ActivationCode, error) {
	code = NormalizeCode(code)
	if !ValidCodeFormat(code) || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if level != "" && !level.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return &ActivationCode{
		Code:         code,
		Level:        level,
		DurationDays: durationDays,
		CreatedAt:    time.Now(),
	}, nil
}

// MarkUsed performs the monotonic false→true transition, stamping UsedBy and
// UsedAt together so the "used iff both present" invariant holds.
func (c *ActivationCode) MarkUsed(accountID string, at time.Time) error {
	if c.IsUsed {
		return domain.ErrCodeAlreadyUsed
	}
	if accountID == "" {
		return domain.ErrInvalidArgument
	}
	c.IsUsed = true
	c.UsedBy = &accountID
	c.UsedAt = &at
	return nil
}

func (c *ActivationCode) IsZero() bool { return c == nil || c.Code == "" }
