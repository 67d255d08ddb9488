package model

import (
	"strings"
	"time"
)

// Theme and notification preference values accepted on a profile.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	NotifyAll       = "all"
	NotifyImportant = "important"
	NotifyNone      = "none"
)

const (
	DefaultRole        = "Member"
	DefaultDisplayName = "User"
)

type Profile struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Points         int       `json:"points"`
	CompletedTasks int       `json:"completed_tasks"`
	AvatarURL      string    `json:"avatar_url"`
	HouseholdID    *string   `json:"household_id"`
	Notifications  string    `json:"notifications"`
	Theme          string    `json:"theme"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Member is the read-side view of a profile inside a household listing.
type Member struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	AvatarURL      string `json:"avatar_url"`
	Points         int    `json:"points"`
	CompletedTasks int    `json:"completed_tasks"`
}

// DisplayName falls back from the full name to the local part of the email,
// then to DefaultDisplayName.
func DisplayName(fullName, email string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return DefaultDisplayName
}

// RoleOrDefault returns role, or DefaultRole when it is blank.
func RoleOrDefault(role string) string {
	if strings.TrimSpace(role) == "" {
		return DefaultRole
	}
	return role
}

// ValidTheme reports whether v is an accepted theme value.
func ValidTheme(v string) bool {
	return v == ThemeLight || v == ThemeDark || v == ThemeSystem
}

// ValidNotifications reports whether v is an accepted notification preference.
func ValidNotifications(v string) bool {
	return v == NotifyAll || v == NotifyImportant || v == NotifyNone
}

// MemberFromProfile builds the listing view of p.
func MemberFromProfile(p Profile) Member {
	return Member{
		ID:             p.ID,
		Name:           DisplayName(p.FullName, p.Email),
		Email:          p.Email,
		Role:           RoleOrDefault(p.Role),
		AvatarURL:      p.AvatarURL,
		Points:         p.Points,
		CompletedTasks: p.CompletedTasks,
	}
}
