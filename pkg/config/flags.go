// Package config defines the tool's CLI flags, which can also be set
// using environment variables or a TOML configuration file.
package config

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"

	"github.com/tzrikka/ownergate/internal/logger"
	"github.com/tzrikka/xdg"
)

const (
	DirName        = "ownergate"
	ConfigFileName = "config.toml"

	DefaultOTLPEndpoint = "https://localhost:4318"
	DefaultOTLPTimeout  = 10000 // 10 seconds.
)

// configFile returns the path to the app's configuration file.
// It also creates an empty file if it doesn't already exist.
func configFile() altsrc.StringSourcer {
	path, _ := xdg.FindConfigFile(DirName, ConfigFileName)
	if path != "" {
		return altsrc.StringSourcer(path)
	}

	path, err := xdg.CreateFile(xdg.ConfigHome, DirName, ConfigFileName)
	if err != nil {
		logger.Fatal("failed to create config file", err)
	}
	return altsrc.StringSourcer(path)
}

// Flags defines the CLI flags of the approval check. These flags are usually
// set using environment variables or the application's configuration file.
func Flags() []cli.Flag {
	path := configFile()

	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "dev",
			Usage: "verbose human-readable output, for local runs",
		},
		&cli.BoolFlag{
			Name:  "pretty-log",
			Usage: "human-readable console logging, instead of JSON",
		},

		// GitHub.
		&cli.StringFlag{
			Name:  "github-token",
			Usage: "GitHub API token with repository and organization read access",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GITHUB_TOKEN"),
				toml.TOML("github.token", path),
			),
		},
		&cli.StringFlag{
			Name:  "github-url",
			Usage: "GitHub Enterprise base URL (empty for github.com)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("GITHUB_BASE_URL"),
				toml.TOML("github.base_url", path),
			),
		},
		&cli.StringSliceFlag{
			Name:  "codeowners-path",
			Usage: "candidate CODEOWNERS file paths, tried in order",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CODEOWNERS_PATHS"),
				toml.TOML("github.codeowners_paths", path),
			),
		},

		// https://github.com/open-telemetry/opentelemetry-go/blob/main/exporters/otlp/otlpmetric/otlpmetrichttp/doc.go
		&cli.BoolFlag{
			Name:  "otlp-disabled",
			Usage: "Disable exporting OTLP metrics",
			Value: true,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OTEL_EXPORTER_OTLP_DISABLED"),
				toml.TOML("otlp.disabled", path),
			),
		},
		&cli.StringFlag{
			Name:  "otlp-endpoint",
			Usage: "OTLP endpoint using HTTP",
			Value: DefaultOTLPEndpoint,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OTEL_EXPORTER_OTLP_ENDPOINT"),
				toml.TOML("otlp.endpoint", path),
			),
		},
		&cli.Int64Flag{
			Name:  "otlp-timeout-ms",
			Usage: "OTLP batch export timeout in milliseconds",
			Value: DefaultOTLPTimeout,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OTEL_EXPORTER_OTLP_TIMEOUT_MS"),
				toml.TOML("otlp.timeout_ms", path),
			),
		},
		&cli.StringFlag{
			Name:  "otlp-compression",
			Usage: "OTLP compression method (e.g. gzip)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("OTEL_EXPORTER_OTLP_COMPRESSION"),
				toml.TOML("otlp.compression", path),
			),
		},
	}
}
