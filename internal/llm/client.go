package llm

import "context"

type Message struct {
	Role    string
	Content string
	// ToolCalls is set on assistant messages that requested tools.
	ToolCalls []ToolCall
	// ToolCallID is set on role "tool" messages carrying a tool result.
	ToolCallID string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ToolCalls        []ToolCall
}

// Tool описывает функцию, доступную модели.
type Tool struct {
	Type     string
	Function Function
}

type Function struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall — запрос модели на вызов функции.
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

type FunctionCall struct {
	Name      string
	Arguments map[string]interface{}
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (Response, error)
}
