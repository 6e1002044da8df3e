package llm

// Provider names used in events and errors.
const (
	ProviderDify     = "dify"
	ProviderSpark    = "spark"
	ProviderDeepSeek = "deepseek"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskChat         TaskType = "chat"
	TaskNutrition    TaskType = "nutrition_advice"
	TaskMealEstimate TaskType = "meal_estimate"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultTasks returns the generation parameters per task.
func DefaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskChat:         {Temperature: 0.5, MaxTokens: 1024},
		TaskNutrition:    {Temperature: 0.2, MaxTokens: 512},
		TaskMealEstimate: {Temperature: 0.1, MaxTokens: 256},
	}
}

// Message is one chat turn. Role is "system", "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(s string) Message    { return Message{Role: "system", Content: s} }
func User(s string) Message      { return Message{Role: "user", Content: s} }
func Assistant(s string) Message { return Message{Role: "assistant", Content: s} }

// LastUser returns the content of the last user message, or "".
func LastUser(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return ""
}
