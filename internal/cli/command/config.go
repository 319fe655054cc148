package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/nftsnap/internal/cli/config"
)

// ConfigCommand returns the config command group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check the configuration",
				Action: configValidate,
			},
			{
				Name:      "init",
				Usage:     "Write the effective configuration to a new file",
				ArgsUsage: "[PATH]",
				Action:    configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env := envFrom(c)
	return env.Print(config.Sanitize(env.Config))
}

// validation is the result of config validate.
type validation struct {
	Valid   bool   `json:"valid"`
	Network string `json:"network"`
	Source  string `json:"source"`
}

// configValidate reports success; invalid configurations already fail
// while loading.
func configValidate(c *cli.Context) error {
	env := envFrom(c)
	source := c.String("config")
	if source == "" {
		source = "defaults"
	}
	return env.Print(&validation{Valid: true, Network: env.Config.Network.Name, Source: source})
}

// initResult is printed after config init.
type initResult struct {
	Path string `json:"path"`
}

func configInit(c *cli.Context) error {
	env := envFrom(c)
	path := c.Args().First()
	if path == "" {
		path = config.DefaultConfigPath()
	}

	// The mnemonic stays in the environment.
	cfg := *env.Config
	cfg.Wallet.Mnemonic = ""

	if err := config.Save(&cfg, path); err != nil {
		return err
	}
	env.Logger.Info("config written", "path", path)
	return env.Print(&initResult{Path: path})
}
