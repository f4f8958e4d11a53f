package models

// Endpoints for the Hugging Face Inference Providers router
// (OpenAI-compatible API surface).
const (
	DefaultBaseURL         = "https://router.huggingface.co/v1"
	PathChatCompletions    = "/chat/completions"
	PathModels             = "/models"
	SSEDataPrefix          = "data: "
	SSEDoneMarker          = "[DONE]"
	EnvToken               = "HF_TOKEN"
	MaxErrorBodyForDisplay = 512
)

// Default generation parameters. These mirror the knobs the API accepts;
// config may override them.
const (
	DefaultTemperature    = 0.7
	DefaultTopP           = 0.95
	DefaultMaxTokens      = 500
	DefaultTimeoutSeconds = 60
)

// Model represents a selectable remote model.
type Model struct {
	Name        string // provider model id, e.g. "deepseek-ai/DeepSeek-V3-0324"
	Description string
}

// Available models. The router accepts arbitrary ids; this catalog only
// seeds the picker and the config default.
var (
	ModelDeepSeekV3 = Model{
		Name:        "deepseek-ai/DeepSeek-V3-0324",
		Description: "DeepSeek V3 - strong general-purpose default",
	}

	ModelLlama33 = Model{
		Name:        "meta-llama/Llama-3.3-70B-Instruct",
		Description: "Llama 3.3 70B - instruction-tuned generalist",
	}

	ModelQwen25Coder = Model{
		Name:        "Qwen/Qwen2.5-Coder-32B-Instruct",
		Description: "Qwen 2.5 Coder - code-focused assistant",
	}

	ModelMistralSmall = Model{
		Name:        "mistralai/Mistral-Small-24B-Instruct-2501",
		Description: "Mistral Small - fast and inexpensive",
	}

	// DefaultModel is the recommended default
	DefaultModel = ModelDeepSeekV3
)

// AllModels returns the built-in model catalog.
func AllModels() []Model {
	return []Model{ModelDeepSeekV3, ModelLlama33, ModelQwen25Coder, ModelMistralSmall}
}

// ModelFromName returns a catalog Model by id. Unknown ids are passed
// through untouched so users can select any model the router hosts.
func ModelFromName(name string) Model {
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name}
}
