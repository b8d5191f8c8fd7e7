package domain

import "time"

// ActivityType enumerates audited actions.
type ActivityType string

const (
	ActivityLogin          ActivityType = "LOGIN"
	ActivityLogout         ActivityType = "LOGOUT"
	ActivityUserCreate     ActivityType = "USER_CREATE"
	ActivityUserUpdate     ActivityType = "USER_UPDATE"
	ActivityUserDelete     ActivityType = "USER_DELETE"
	ActivityPasswordReset  ActivityType = "PASSWORD_RESET"
	ActivityPageAccess     ActivityType = "PAGE_ACCESS"
	ActivityChatView       ActivityType = "CHAT_VIEW"
	ActivitySettingsChange ActivityType = "SETTINGS_CHANGE"
	ActivityRoleChange     ActivityType = "ROLE_CHANGE"
	ActivityBulkAction     ActivityType = "BULK_ACTION"
)

// ActivityTypes lists every audited action in display order.
var ActivityTypes = []ActivityType{
	ActivityLogin,
	ActivityLogout,
	ActivityUserCreate,
	ActivityUserUpdate,
	ActivityUserDelete,
	ActivityPasswordReset,
	ActivityPageAccess,
	ActivityChatView,
	ActivitySettingsChange,
	ActivityRoleChange,
	ActivityBulkAction,
}

// ActivityLog is an audit trail entry.
type ActivityLog struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	UserRole   Role           `json:"userRole"`
	Action     ActivityType   `json:"action"`
	Target     string         `json:"target,omitempty"`
	TargetType string         `json:"targetType,omitempty"`
	Details    string         `json:"details"`
	IPAddress  string         `json:"ipAddress"`
	Timestamp  time.Time      `json:"timestamp"`
	Changes    map[string]any `json:"changes,omitempty"`
}

// RecordID returns the log id.
func (l ActivityLog) RecordID() string { return l.ID }
