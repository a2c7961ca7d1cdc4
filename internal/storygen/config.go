package storygen

import "time"

// Config tunes story generation.
type Config struct {
	Pages       int
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Generate call. Zero means no extra bound.
	Timeout time.Duration
}

// DefaultConfig asks for a four page story.
func DefaultConfig() Config {
	return Config{
		Pages:       4,
		MaxTokens:   1024,
		Temperature: 0.8,
		Timeout:     30 * time.Second,
	}
}
