// Package present maps domain values to display attributes.
package present

import (
	"fmt"
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/i18n"
)

// Badge variants understood by the UI.
const (
	BadgeDefault     = "default"
	BadgeSecondary   = "secondary"
	BadgeOutline     = "outline"
	BadgeDestructive = "destructive"
	BadgeSuccess     = "success"
	BadgeWarning     = "warning"
)

// SeverityBadge picks the badge for a ticket severity.
func SeverityBadge(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return BadgeDestructive
	case domain.SeverityHigh:
		return BadgeOutline
	case domain.SeverityMedium:
		return BadgeSecondary
	default:
		return BadgeDefault
	}
}

// StatusBadge picks the badge for a ticket status.
func StatusBadge(s domain.TicketStatus) string {
	switch s {
	case domain.TicketStatusCompleted:
		return BadgeDefault
	case domain.TicketStatusInProgress:
		return BadgeOutline
	case domain.TicketStatusReviewing:
		return BadgeSecondary
	default:
		return BadgeDestructive
	}
}

// PriorityBadge picks the badge for a ticket priority.
func PriorityBadge(p domain.TicketPriority) string {
	switch p {
	case domain.TicketPriorityHighest:
		return BadgeDestructive
	case domain.TicketPriorityHigh:
		return BadgeOutline
	case domain.TicketPriorityNormal:
		return BadgeSecondary
	default:
		return BadgeDefault
	}
}

// ActionBadge picks the badge for an audited action.
func ActionBadge(a domain.ActivityType) string {
	switch a {
	case domain.ActivityUserCreate:
		return BadgeSuccess
	case domain.ActivityUserUpdate, domain.ActivitySettingsChange, domain.ActivityRoleChange:
		return BadgeWarning
	case domain.ActivityUserDelete:
		return BadgeDestructive
	case domain.ActivityPasswordReset:
		return BadgeOutline
	case domain.ActivityPageAccess, domain.ActivityChatView:
		return BadgeSecondary
	default:
		return BadgeDefault
	}
}

// RoleBadge picks the badge for a user role.
func RoleBadge(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return BadgeDestructive
	case domain.RoleManager:
		return BadgeWarning
	default:
		return BadgeSecondary
	}
}

// FormatDate renders a calendar date the way the locale's browsers do.
func FormatDate(t time.Time, locale string) string {
	y, m, d := t.Date()
	if locale == i18n.English {
		return fmt.Sprintf("%d/%d/%d", int(m), d, y)
	}
	return fmt.Sprintf("%d. %d. %d.", y, int(m), d)
}

// FormatDateTime renders a date and 12-hour clock time for the locale.
func FormatDateTime(t time.Time, locale string) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	pm := t.Hour() >= 12
	clock := fmt.Sprintf("%d:%02d:%02d", h, t.Minute(), t.Second())

	if locale == i18n.English {
		suffix := "AM"
		if pm {
			suffix = "PM"
		}
		return fmt.Sprintf("%s, %s %s", FormatDate(t, locale), clock, suffix)
	}
	marker := "오전"
	if pm {
		marker = "오후"
	}
	return fmt.Sprintf("%s %s %s", FormatDate(t, locale), marker, clock)
}

// FieldLabel returns the translated label of a ticket field.
func FieldLabel(tr *i18n.Translator, locale, field string) string {
	return tr.T(locale, "fields."+field, nil)
}

// ValueLabel translates a field value for display. Enum-backed fields go
// through the values catalog; free-text fields are returned as is.
func ValueLabel(tr *i18n.Translator, locale, field, value string) string {
	switch field {
	case domain.FieldSeverity, domain.FieldStatus, domain.FieldPriority, domain.FieldCategory, domain.FieldEnvironment:
		return tr.Value(locale, value)
	}
	if value == "none" {
		return tr.Value(locale, value)
	}
	return value
}
