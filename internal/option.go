package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	// mcpMode serves the MCP stdio server instead of HTTP.
	mcpMode bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMCPMode switches the process to MCP stdio serving.
func WithMCPMode(enabled bool) Option {
	return func(a *application) {
		a.mcpMode = enabled
	}
}
