package kafka

import "strings"

type Config struct {
	Brokers          string `envconfig:"BROKERS"`
	Topic            string `envconfig:"TOPIC" default:"horoscope-delivery-events"`
	SecurityProtocol string `envconfig:"SECURITY_PROTOCOL"`
	SASLMechanism    string `envconfig:"SASL_MECHANISM"`
	SASLUsername     string `envconfig:"SASL_USERNAME"`
	SASLPassword     string `envconfig:"SASL_PASSWORD"`
}

// IsConfigured указаны ли брокеры (producer опционален)
func (c *Config) IsConfigured() bool {
	return c != nil && c.Brokers != ""
}

// GetBrokers список брокеров
func (c *Config) GetBrokers() []string {
	return strings.Split(c.Brokers, ",")
}
