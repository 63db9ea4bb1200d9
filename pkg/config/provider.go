package config

import (
	"fmt"
	"os"

	"github.com/quillhq/quill/pkg/llm/openai"
)

// BuildProvider creates an LLM provider based on configuration precedence:
// CLI flags > environment variables > config file > defaults.
func BuildProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	model := cliModel
	baseURL := cliBaseURL
	apiKey := cliAPIKey

	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	if llmConfig := GetLLM(); llmConfig != nil {
		if model == "" || model == defaultModel {
			if v := llmConfig.GetModel(); v != "" {
				model = v
			}
		}
		if baseURL == "" {
			baseURL = llmConfig.GetBaseURL()
		}
		if apiKey == "" {
			apiKey = llmConfig.GetAPIKey()
		}
	}

	if model == "" {
		model = defaultModel
	}
	if apiKey == "" {
		return nil, fmt.Errorf("config: API key is required (set OPENAI_API_KEY, use --api-key, or configure ~/.quill/config.json)")
	}

	opts := []openai.ProviderOption{openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	provider, err := openai.NewProvider(apiKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: create LLM provider: %w", err)
	}
	return provider, nil
}

// BuildMemoryProvider creates the provider used for rolling-memory refreshes.
// If a memory_model is configured it overrides the main model; otherwise the
// provider is identical to the one BuildProvider returns.
func BuildMemoryProvider(cliModel, cliBaseURL, cliAPIKey, defaultModel string) (*openai.Provider, error) {
	model := cliModel
	if llmConfig := GetLLM(); llmConfig != nil {
		if v := llmConfig.GetMemoryModel(); v != "" && model == "" {
			model = v
		}
	}
	return BuildProvider(model, cliBaseURL, cliAPIKey, defaultModel)
}
