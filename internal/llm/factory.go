package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/zibao/internal/logging"
)

// NewProvider builds the configured provider, wrapped so that each attempt
// is recorded and transient failures are retried:
// caller → retry → recording → provider.
func NewProvider(ctx context.Context, cfg Config, rec EventRecorder, log *zap.Logger) (Provider, error) {
	log = logging.OrNop(log)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	log.Info("llm provider ready",
		zap.String("provider", base.Name()),
		zap.String("model", base.ModelID()),
	)
	return WithRetry(WithRecording(base, rec, log), cfg.Retry, log), nil
}
