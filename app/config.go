// Package app assembles meetscribe: its configuration and the wiring from
// providers through proxies to HTTP routes.
package app

import (
	"fmt"
	"time"

	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/llm/openai"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/server"
	"github.com/kbukum/meetscribe/transcription/whisper"
	"github.com/kbukum/meetscribe/upload"
	"github.com/kbukum/meetscribe/util"
)

// ServiceName is the name used for config lookup and telemetry.
const ServiceName = "meetscribe"

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Upload        upload.Config        `yaml:"upload" mapstructure:"upload"`
	Provider      ProviderConfig       `yaml:"provider" mapstructure:"provider"`
	Analysis      AnalysisConfig       `yaml:"analysis" mapstructure:"analysis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ProviderConfig configures the OpenAI-compatible provider used for both
// transcription and analysis.
type ProviderConfig struct {
	// APIKey is the process-wide credential. Empty is allowed at startup;
	// requests then fail with a configuration error.
	APIKey             string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL            string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	TranscriptionModel string        `yaml:"transcription_model" mapstructure:"transcription_model"`
	ChatModel          string        `yaml:"chat_model" mapstructure:"chat_model"`
	// Language is an optional ISO-639-1 hint such as "en".
	Language string `yaml:"language" mapstructure:"language"`
}

// AnalysisConfig configures /analyze.
type AnalysisConfig struct {
	MaxBodySize string `yaml:"max_body_size" mapstructure:"max_body_size"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Upload.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = whisper.DefaultBaseURL
	}
	if c.Provider.Timeout <= 0 {
		c.Provider.Timeout = 60 * time.Second
	}
	if c.Provider.TranscriptionModel == "" {
		c.Provider.TranscriptionModel = whisper.DefaultModel
	}
	if c.Provider.ChatModel == "" {
		c.Provider.ChatModel = openai.DefaultModel
	}
	if c.Analysis.MaxBodySize == "" {
		c.Analysis.MaxBodySize = "2MB"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Upload.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if util.ParseSize(c.Analysis.MaxBodySize, 0) <= 0 {
		return fmt.Errorf("analysis.max_body_size must be positive (got: %q)", c.Analysis.MaxBodySize)
	}
	if time.Duration(c.Server.WriteTimeout)*time.Second <= c.Provider.Timeout {
		return fmt.Errorf("server.write_timeout (%ds) must exceed provider.timeout (%s)",
			c.Server.WriteTimeout, c.Provider.Timeout)
	}
	return nil
}
