package domain

// SelectOption is a value/label pair offered by a dropdown.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionCategory names a lookup table of select options.
type OptionCategory string

const (
	OptionSeverity    OptionCategory = "severity"
	OptionStatus      OptionCategory = "status"
	OptionPriority    OptionCategory = "priority"
	OptionCategoryKey OptionCategory = "category"
	OptionEnvironment OptionCategory = "environment"
)

// OptionCategories lists the option tables in seed order.
var OptionCategories = []OptionCategory{
	OptionSeverity,
	OptionStatus,
	OptionPriority,
	OptionCategoryKey,
	OptionEnvironment,
}

// NameKind names a lookup table of people.
type NameKind string

const (
	NamesAssignee NameKind = "assignee"
	NamesReporter NameKind = "reporter"
)
