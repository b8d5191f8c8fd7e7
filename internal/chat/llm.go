package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/i18n"
)

const systemPrompt = `당신은 티켓 관리 시스템의 AI 어시스턴트입니다. 사용자가 티켓 관련 질문을 하면 적절한 도구를 사용하여 정보를 제공하고 작업을 수행합니다.

티켓 조회, 상태 업데이트, 담당자 할당 등의 작업을 수행할 수 있습니다.

응답은 항상 한국어로 제공하며, 정중하고 전문적인 어조를 유지합니다.

티켓 상태는 '대기중', '진행중', '검토중', '완료' 중 하나입니다.

사용자가 티켓 관련 질문이 아닌 일반적인 질문을 하면, 티켓 관리 시스템과 관련된 대화로 유도하세요.

티켓 조회 요청이 있을 때는 반드시 getTickets 도구를 사용하세요. 티켓 목록을 조회하면 UI가 자동으로 조정됩니다.
특정 티켓 조회 요청이 있을 때는 getTicketById 도구를 사용하세요.

티켓 정보를 표시할 때는 다음 형식의 JSON을 포함하세요:

` + "```json\n{\"tickets\": [...티켓 목록...]}\n```" + `

또는 특정 티켓의 경우:

` + "```json\n{\"ticket\": {...티켓 정보...}}\n```"

// NewModel creates the langchaingo model for the configured provider.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	return model, nil
}

// LLMDependencies wires an LLMAssistant.
type LLMDependencies struct {
	Model      llms.Model
	Tools      TicketTools
	Translator *i18n.Translator
	Locale     string
	Config     config.LLMConfig
	Logger     *zap.Logger
}

// LLMAssistant answers through a language model that can call ticket tools.
type LLMAssistant struct {
	model       llms.Model
	tools       TicketTools
	tr          *i18n.Translator
	locale      string
	temperature float64
	maxTokens   int
	maxRounds   int
	logger      *zap.Logger
}

// NewLLMAssistant builds the model-backed assistant.
func NewLLMAssistant(deps LLMDependencies) *LLMAssistant {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rounds := deps.Config.MaxToolRounds
	if rounds <= 0 {
		rounds = 5
	}
	locale := deps.Locale
	if locale == "" {
		locale = i18n.Korean
	}
	return &LLMAssistant{
		model:       deps.Model,
		tools:       deps.Tools,
		tr:          deps.Translator,
		locale:      locale,
		temperature: deps.Config.Temperature,
		maxTokens:   deps.Config.MaxTokens,
		maxRounds:   rounds,
		logger:      logger,
	}
}

func toMessageContent(history []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(history)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, m := range history {
		switch m.Role {
		case RoleAssistant, "AI", "ai":
			out = append(out, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		case RoleSystem:
			out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		default:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}
	return out
}

// SendMessage runs the model, executing tool calls until it produces a
// final answer or the round limit is reached.
func (a *LLMAssistant) SendMessage(ctx context.Context, history []Message, onChunk func(string)) (Reply, error) {
	if len(history) == 0 {
		return Reply{}, ErrEmptyHistory
	}
	messages := toMessageContent(history)

	opts := []llms.CallOption{llms.WithTools(ticketTools)}
	if a.temperature > 0 {
		opts = append(opts, llms.WithTemperature(a.temperature))
	}
	if a.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.maxTokens))
	}
	if onChunk != nil {
		opts = append(opts, llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			onChunk(string(chunk))
			return nil
		}))
	}

	var toolAction *Action
	for round := 0; round < a.maxRounds; round++ {
		resp, err := a.model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return Reply{}, fmt.Errorf("generate reply: %w", err)
		}
		if len(resp.Choices) == 0 {
			return Reply{}, fmt.Errorf("generate reply: no response choices")
		}
		choice := resp.Choices[0]

		if len(choice.ToolCalls) == 0 {
			reply := Reply{Text: choice.Content, Action: ExtractAction(choice.Content)}
			if reply.Action == nil {
				reply.Action = toolAction
			}
			return reply, nil
		}

		call := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			call.Parts = append(call.Parts, tc)
		}
		messages = append(messages, call)

		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			result := a.runTool(ctx, tc.FunctionCall.Name, tc.FunctionCall.Arguments)
			if act := result.action(); act != nil {
				toolAction = act
			}
			body, err := json.Marshal(result)
			if err != nil {
				return Reply{}, fmt.Errorf("encode tool result: %w", err)
			}
			a.logger.Debug("assistant tool call",
				zap.String("tool", tc.FunctionCall.Name),
				zap.Bool("success", result.Success),
			)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    string(body),
				}},
			})
		}
	}

	a.logger.Warn("assistant tool loop exhausted", zap.Int("rounds", a.maxRounds))
	return Reply{}, ErrToolLoop
}
