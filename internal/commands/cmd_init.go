package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/hay-kot/bell/internal/commands/init"
)

type InitCmd struct {
	flags  *Flags
	yes    bool
	force  bool
	server string
	token  string
	theme  string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize bell configuration with an interactive wizard",
		UsageText: "bell init [options]",
		Description: `Sets up bell for first-time use with an interactive wizard that asks for
the server URL, an access token and a theme, then writes
~/.config/bell/config.yaml.

Use --yes to accept flags and defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "server",
				Usage:       "notification server URL",
				Destination: &cmd.server,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "access token",
				Sources:     cli.EnvVars("BELL_SERVER_TOKEN"),
				Destination: &cmd.token,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "color theme",
				Destination: &cmd.theme,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		Yes:        cmd.yes,
		Force:      cmd.force,
		ServerURL:  cmd.server,
		Token:      cmd.token,
		Theme:      cmd.theme,
	})
	return wizard.Run(ctx)
}
