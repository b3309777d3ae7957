package model

import (
	"strings"
	"time"

	"edu-activation-core/internal/domain"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Level is the secondary-school tier a user (or code) belongs to.
// The values are the exact labels stored by the platform since launch;
// they are part of the storage contract and must not be renamed.
type Level string

const (
	LevelOne   Level = "أولى ثانوي"
	LevelTwo   Level = "ثانية ثانوي"
	LevelThree Level = "ثالثة ثانوي"
)

func (l Level) Valid() bool {
	switch l {
	case LevelOne, LevelTwo, LevelThree:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Account is a platform user. The ID is the opaque identifier issued by the
// external identity provider; credentials are never checked here.
type Account struct {
	ID                string     `json:"uid"`
	Email             string     `json:"email"`
	Role              Role       `json:"role"`
	Level             Level      `json:"level"`
	IsActive          bool       `json:"isActive"`
	SubscriptionStart *time.Time `json:"subStart,omitempty"`
	SubscriptionEnd   *time.Time `json:"subEnd,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NewAccount creates an inactive student account. Elevated roles are only
// ever assigned out of band, never at registration.
func NewAccount(id, email string, level Level) (*Account, error) {
	id = strings.TrimSpace(id)
	email = strings.TrimSpace(email)
	if id == "" || email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if !level.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	return &Account{
		ID:        id,
		Email:     email,
		Role:      RoleStudent,
		Level:     level,
		IsActive:  false,
		CreatedAt: time.Now(),
	}, nil
}

func (a *Account) IsZero() bool { return a == nil || a.ID == "" }

// Entitled reports whether the account may view gated content at `now`.
// The stored IsActive flag means "ever activated"; an elapsed subscription
// window revokes entitlement at read time without any background mutation.
func (a *Account) Entitled(now time.Time) bool {
	return a != nil && a.IsActive && a.SubscriptionEnd != nil && now.Before(*a.SubscriptionEnd)
}

// DaysRemaining returns whole days left in the subscription window, rounded
// up, or 0 when no window is set or it has elapsed. Display-only.
func (a *Account) DaysRemaining(now time.Time) int {
	if a == nil || a.SubscriptionEnd == nil || !now.Before(*a.SubscriptionEnd) {
		return 0
	}
	d := a.SubscriptionEnd.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
