package completion

import (
	"testing"

	"github.com/nguyentantai21042004/meeting-minutes/internal/config"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/pkg/executor"
)

func TestNew(t *testing.T) {
	t.Setenv("MINUTES_TEST_KEY", "k1, k2 ,")

	tests := []struct {
		name     string
		mutate   func(c *config.Config)
		wantErr  bool
		wantType string
	}{
		{
			name: "openai",
			mutate: func(c *config.Config) {
				c.Completion.APIKeyEnv = "MINUTES_TEST_KEY"
			},
			wantType: "openai",
		},
		{
			name: "openai with retry",
			mutate: func(c *config.Config) {
				c.Completion.APIKeyEnv = "MINUTES_TEST_KEY"
				c.Retry.MaxAttempts = 3
			},
			wantType: "retry",
		},
		{
			name: "gemini",
			mutate: func(c *config.Config) {
				c.Completion.Provider = config.ProviderGemini
				c.Completion.APIKeyEnv = "MINUTES_TEST_KEY"
			},
			wantType: "gemini",
		},
		{
			name: "command",
			mutate: func(c *config.Config) {
				c.Completion.Provider = config.ProviderCommand
				c.Completion.Command.Binary = "llama-cli"
			},
			wantType: "command",
		},
		{
			name: "missing key",
			mutate: func(c *config.Config) {
				c.Completion.APIKeyEnv = "MINUTES_TEST_KEY_UNSET"
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			mutate: func(c *config.Config) {
				c.Completion.Provider = "carrier-pigeon"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			client, err := New(&cfg, executor.New(), logger.Nop())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var ok bool
			switch tt.wantType {
			case "openai":
				_, ok = client.(*OpenAIClient)
			case "retry":
				_, ok = client.(*Retrying)
			case "gemini":
				var gc *GeminiClient
				gc, ok = client.(*GeminiClient)
				if ok && len(gc.apiKeys) != 2 {
					t.Errorf("gemini keys = %v, want 2", gc.apiKeys)
				}
			case "command":
				_, ok = client.(*CommandClient)
			}
			if !ok {
				t.Errorf("New() = %T, want %s", client, tt.wantType)
			}
		})
	}
}
