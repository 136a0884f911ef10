package completion

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

// New builds the configured backend wrapped in the retry policy. API keys are
// read from the environment variable named by cfg.Completion.APIKeyEnv; for
// Gemini it may hold several comma separated keys.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Client, error) {
	cc := cfg.Completion

	var client Client
	switch cc.Provider {
	case config.ProviderOpenAI:
		key := strings.TrimSpace(os.Getenv(cc.APIKeyEnv))
		if key == "" {
			return nil, fmt.Errorf("%s is not set", cc.APIKeyEnv)
		}
		client = NewOpenAIClient(key, cc.BaseURL, cc.Timeout())

	case config.ProviderGemini:
		keys := splitKeys(os.Getenv(cc.APIKeyEnv))
		if len(keys) == 0 {
			return nil, fmt.Errorf("%s is not set", cc.APIKeyEnv)
		}
		gc, err := NewGeminiClient(keys, cc.BaseURL, cc.Timeout(), log)
		if err != nil {
			return nil, err
		}
		client = gc

	case config.ProviderCommand:
		client = NewCommandClient(exec, cc.Command.Binary, cc.Command.Args, cc.Timeout())

	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cc.Provider)
	}

	return WithRetry(client, cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoff, log), nil
}

func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
