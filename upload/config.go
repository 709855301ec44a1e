package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/meetscribe/util"
)

const (
	defaultMaxFileSize = 50 << 20
	// formOverhead is the allowance for multipart framing and text fields on
	// top of the file limit.
	formOverhead = 1 << 20
	// maxPromptBytes caps the prompt field.
	maxPromptBytes = 64 << 10
)

// Config controls upload acceptance and temporary storage.
type Config struct {
	// MaxFileSize is the largest accepted audio file, e.g. "50MB".
	MaxFileSize string `yaml:"max_file_size" mapstructure:"max_file_size"`
	// TempDir holds uploads while they are forwarded. Defaults to
	// $TMPDIR/meetscribe.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxFileSize == "" {
		c.MaxFileSize = "50MB"
	}
	if c.TempDir == "" {
		c.TempDir = filepath.Join(os.TempDir(), "meetscribe")
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxBytes() <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive (got: %q)", c.MaxFileSize)
	}
	return nil
}

// MaxBytes returns the file limit in bytes.
func (c *Config) MaxBytes() int64 {
	return util.ParseSize(c.MaxFileSize, defaultMaxFileSize)
}
