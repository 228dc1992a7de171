package config

// Config represents the complete configuration structure
type Config struct {
	Qbittorrent QbittorrentConfig `mapstructure:"qbittorrent"`
	Filter      FilterConfig      `mapstructure:"filter"`
	MCP         MCPConfig         `mapstructure:"mcp"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// QbittorrentConfig holds Web UI connection details
type QbittorrentConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Timeout is the per-request timeout in seconds.
	Timeout       int  `mapstructure:"timeout"`
	TLSSkipVerify bool `mapstructure:"tls_skip_verify"`
}

// FilterConfig contains the default listing expression and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// MCPConfig controls the identity the MCP server advertises
type MCPConfig struct {
	ServerName string `mapstructure:"server_name"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
