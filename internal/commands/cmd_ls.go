package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	unreadOnly bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List notifications",
		UsageText: "bell ls [--json] [--unread]",
		Description: `Fetches the notification list from the server once and prints it
newest first along with the unread count.

Use --json for the rendered view (badge, status and items) as JSON.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the rendered view as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "unread",
				Aliases:     []string{"u"},
				Usage:       "only list unread notifications",
				Destination: &cmd.unreadOnly,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	b, err := newBackend(cmd.flags.Config)
	if err != nil {
		return err
	}
	if err := requireSession(b.session); err != nil {
		return err
	}

	mgr, rec := oneShot(ctx, b)
	mgr.LoadNotifications()
	if err := rec.Err(); err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	view := mgr.View()
	if cmd.unreadOnly {
		view.Items = unreadItems(view.Items)
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, view)
	}

	return writeTable(c.Root().Writer, view)
}

func unreadItems(items []notify.Item) []notify.Item {
	out := make([]notify.Item, 0, len(items))
	for _, item := range items {
		if !item.Read {
			out = append(out, item)
		}
	}
	return out
}

func writeTable(w io.Writer, view notify.View) error {
	if len(view.Items) == 0 {
		_, err := fmt.Fprintln(w, "No notifications")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, " \tID\tTYPE\tAGE\tTITLE")
	for _, item := range view.Items {
		marker := " "
		if !item.Read {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, item.ID, item.Type, item.Age, item.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d unread\n", view.UnreadCount)
	return err
}
