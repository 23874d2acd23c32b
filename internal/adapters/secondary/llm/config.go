package llm

type Config struct {
	BaseURL        string `envconfig:"BASE_URL"`
	APIKey         string `envconfig:"API_KEY"`
	Model          string `envconfig:"MODEL" default:"gpt-4o-mini"`
	TimeoutSeconds int    `envconfig:"TIMEOUT" default:"30"`
	MaxTokens      int    `envconfig:"MAX_TOKENS" default:"700"`
}

// IsConfigured настроен ли провайдер (без ключа работаем только по шаблонам)
func (c *Config) IsConfigured() bool {
	return c != nil && c.APIKey != "" && c.BaseURL != ""
}
