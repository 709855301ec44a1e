package bootstrap

import (
	"github.com/kbukum/meetscribe/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig satisfies it via promoted methods, as
// long as it is used through a pointer.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
