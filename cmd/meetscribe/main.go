// Command meetscribe serves the transcription and analysis proxy.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/meetscribe/app"
	"github.com/kbukum/meetscribe/bootstrap"
	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "meetscribe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := &app.Config{}
	err := config.LoadConfig(app.ServiceName, cfg,
		config.WithEnvAlias("WHISPER_API_KEY", "provider.api_key"),
		config.WithEnvAlias("PORT", "server.port"),
	)
	if err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	a.OnConfigure(app.Configure)
	return a.Run(context.Background())
}
