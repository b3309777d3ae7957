package model

import "time"

// Section is one entry of the external content catalog. The core reads it
// only as filter input; content storage and streaming live elsewhere.
type Section struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AllowedRoles  []Role    `json:"allowedRoles"`
	AllowedLevels []Level   `json:"allowedLevels"`
	ContentURL    string    `json:"contentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// VisibleTo reports whether the section is visible to the account at `now`.
// Rule: the role must be allowed, the level must be allowed unless the
// section is level-agnostic (empty AllowedLevels), and the account must be
// entitled.
func (s *Section) VisibleTo(a *Account, now time.Time) bool {
	if s == nil || a == nil || !a.Entitled(now) {
		return false
	}
	roleOK := false
	for _, r := range s.AllowedRoles {
		if r == a.Role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		return false
	}
	if len(s.AllowedLevels) == 0 {
		return true
	}
	for _, l := range s.AllowedLevels {
		if l == a.Level {
			return true
		}
	}
	return false
}
