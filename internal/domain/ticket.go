package domain

// Severity enumerates ticket risk levels.
type Severity string

const (
	SeverityLow      Severity = "낮음"
	SeverityMedium   Severity = "중간"
	SeverityHigh     Severity = "높음"
	SeverityCritical Severity = "긴급"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusWaiting    TicketStatus = "대기중"
	TicketStatusInProgress TicketStatus = "진행중"
	TicketStatusReviewing  TicketStatus = "검토중"
	TicketStatusCompleted  TicketStatus = "완료"
)

// TicketPriority enumerates scheduling urgency.
type TicketPriority string

const (
	TicketPriorityLow     TicketPriority = "낮음"
	TicketPriorityNormal  TicketPriority = "보통"
	TicketPriorityHigh    TicketPriority = "높음"
	TicketPriorityHighest TicketPriority = "최우선"
)

// TicketCategory classifies the kind of work.
type TicketCategory string

const (
	CategoryBug         TicketCategory = "버그"
	CategoryImprovement TicketCategory = "기능개선"
	CategoryFeature     TicketCategory = "신규기능"
	CategoryDocs        TicketCategory = "문서화"
	CategoryMaintenance TicketCategory = "유지보수"
)

// Environment names the deployment stage a ticket applies to.
type Environment string

const (
	EnvDevelopment Environment = "개발"
	EnvTest        Environment = "테스트"
	EnvStaging     Environment = "스테이징"
	EnvProduction  Environment = "운영"
)

// Ticket field names, shared by filters, bulk edits and storage.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldSeverity      = "severity"
	FieldStatus        = "status"
	FieldAssignee      = "assignee"
	FieldPriority      = "priority"
	FieldDueDate       = "dueDate"
	FieldCategory      = "category"
	FieldEnvironment   = "environment"
	FieldEstimatedTime = "estimatedTime"
	FieldReporter      = "reporter"
)

// TicketFieldOrder is the canonical order of editable ticket fields.
var TicketFieldOrder = []string{
	FieldName,
	FieldSeverity,
	FieldStatus,
	FieldAssignee,
	FieldPriority,
	FieldDueDate,
	FieldCategory,
	FieldEnvironment,
	FieldEstimatedTime,
	FieldReporter,
}

// DueDateLayout is the storage format of Ticket.DueDate.
const DueDateLayout = "2006-01-02"

// Ticket is a unit of work tracked by the admin panel.
type Ticket struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Severity      Severity       `json:"severity"`
	Status        TicketStatus   `json:"status"`
	Assignee      string         `json:"assignee"`
	Priority      TicketPriority `json:"priority,omitempty"`
	DueDate       string         `json:"dueDate,omitempty"`
	Category      TicketCategory `json:"category,omitempty"`
	Environment   Environment    `json:"environment,omitempty"`
	EstimatedTime string         `json:"estimatedTime,omitempty"`
	Reporter      string         `json:"reporter,omitempty"`
}

// RecordID returns the ticket id.
func (t Ticket) RecordID() string { return t.ID }

// DisplayName returns the ticket name.
func (t Ticket) DisplayName() string { return t.Name }

// Field reads a field by name. ok is false for unknown or unset fields.
func (t Ticket) Field(name string) (string, bool) {
	var v string
	switch name {
	case FieldID:
		v = t.ID
	case FieldName:
		v = t.Name
	case FieldSeverity:
		v = string(t.Severity)
	case FieldStatus:
		v = string(t.Status)
	case FieldAssignee:
		v = t.Assignee
	case FieldPriority:
		v = string(t.Priority)
	case FieldDueDate:
		v = t.DueDate
	case FieldCategory:
		v = string(t.Category)
	case FieldEnvironment:
		v = string(t.Environment)
	case FieldEstimatedTime:
		v = t.EstimatedTime
	case FieldReporter:
		v = t.Reporter
	default:
		return "", false
	}
	return v, v != ""
}

// SetField writes a field by name. The id is immutable.
func (t *Ticket) SetField(name, value string) bool {
	switch name {
	case FieldName:
		t.Name = value
	case FieldSeverity:
		t.Severity = Severity(value)
	case FieldStatus:
		t.Status = TicketStatus(value)
	case FieldAssignee:
		t.Assignee = value
	case FieldPriority:
		t.Priority = TicketPriority(value)
	case FieldDueDate:
		t.DueDate = value
	case FieldCategory:
		t.Category = TicketCategory(value)
	case FieldEnvironment:
		t.Environment = Environment(value)
	case FieldEstimatedTime:
		t.EstimatedTime = value
	case FieldReporter:
		t.Reporter = value
	default:
		return false
	}
	return true
}

// IsTicketField reports whether name is an editable ticket field.
func IsTicketField(name string) bool {
	for _, f := range TicketFieldOrder {
		if f == name {
			return true
		}
	}
	return false
}
