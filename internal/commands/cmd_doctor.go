package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/core/doctor"
	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/core/styles"
	"github.com/hay-kot/bell/internal/printer"
	"github.com/hay-kot/bell/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	format  string
	offline bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your bell setup",
		UsageText:   "bell doctor [options]",
		Description: "Runs diagnostic checks on configuration, the access token, the pull API and the push channel.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip checks that contact the server",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewSessionCheck(session.New(cfg.Server.Token)),
	}

	var skipped *doctor.Result
	if !cmd.offline {
		b, err := newBackend(cfg)
		if err != nil {
			skipped = &doctor.Result{Name: "Server", Items: []doctor.CheckItem{
				{Label: "connect", Status: doctor.StatusFail, Detail: "skipped: " + err.Error()},
			}}
		} else {
			timeout := cfg.Server.Timeout
			checks = append(checks,
				doctor.NewServerCheck(b.api, timeout),
				doctor.NewPushCheck(b.transport, timeout),
			)
		}
	}

	results := doctor.RunAll(ctx, checks)
	if skipped != nil {
		results = append(results, *skipped)
	}
	_, _, failed := doctor.Summary(results)

	var err error
	if cmd.format == "json" {
		err = cmd.outputJSON(c.Root().Writer, results)
	} else {
		cmd.outputText(printer.Ctx(ctx), results)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *DoctorCmd) outputJSON(w io.Writer, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	return iojson.WriteWith(w, os.Stderr, out)
}

func (cmd *DoctorCmd) outputText(p *printer.Printer, results []doctor.Result) {
	p.Printf("")
	p.Section("Bell Doctor")
	p.Printf("")

	for _, result := range results {
		p.Printf("%s", styles.CommandHeaderStyle.Render(result.Name))

		for _, item := range result.Items {
			line := item.Label
			if item.Detail != "" {
				line += " " + styles.DividerStyle.Render(item.Detail)
			}

			switch item.Status {
			case doctor.StatusPass:
				p.Successf("%s", line)
			case doctor.StatusWarn:
				p.Warnf("%s", line)
			case doctor.StatusFail:
				p.Errorf("%s", line)
			}
		}

		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("%s  %s  %s",
		styles.SuccessTextStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.WarningTextStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.ErrorTextStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
}
