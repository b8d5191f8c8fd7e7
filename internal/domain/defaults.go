package domain

func opts(values ...string) []SelectOption {
	out := make([]SelectOption, len(values))
	for i, v := range values {
		out[i] = SelectOption{Value: v, Label: v}
	}
	return out
}

// DefaultOptions are the built-in option lists. They seed the lookup tables
// and stand in when lookup fails.
var DefaultOptions = map[OptionCategory][]SelectOption{
	OptionSeverity:    opts("낮음", "중간", "높음", "긴급"),
	OptionStatus:      opts("대기중", "진행중", "검토중", "완료"),
	OptionPriority:    opts("낮음", "보통", "높음", "최우선"),
	OptionCategoryKey: opts("버그", "기능개선", "신규기능", "문서화", "유지보수"),
	OptionEnvironment: opts("개발", "테스트", "스테이징", "운영"),
}

// DefaultNames are the built-in assignee and reporter lists.
var DefaultNames = map[NameKind][]string{
	NamesAssignee: {"김철수", "이영희", "박지민", "정민준", "최수진", "강동원", "윤서연", "한지훈", "송미나", "조현우"},
	NamesReporter: {"김보고", "이슈진", "박문제", "정버그", "최오류", "강개선", "윤기능", "한테스트", "송품질", "조개발"},
}
