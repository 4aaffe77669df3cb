package models

// Config holds the merged configuration for lumina, loaded from .luminarc
// and environment variables.
type Config struct {
	// Model is the Anthropic model used for AI assist calls.
	Model string
	// APIKey authenticates against the Anthropic API. The
	// ANTHROPIC_API_KEY environment variable takes precedence.
	APIKey string
	// DefaultTheme is "dark", "light", or "" to detect from the terminal
	// background. A persisted theme preference overrides it.
	DefaultTheme string
}
