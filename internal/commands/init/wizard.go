// Package initcmd implements the first-run setup wizard.
package initcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/bell/internal/core/config"
	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/core/styles"
	"github.com/hay-kot/bell/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	Yes        bool // skip prompts, use flags and defaults
	Force      bool // overwrite existing config

	// Preset answers. Empty values fall back to defaults.
	ServerURL string
	Token     string
	Theme     string
}

// Answers are the values collected by the wizard.
type Answers struct {
	ServerURL string
	Token     string
	Theme     string
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions

	// confirm and prompt are replaced in tests.
	confirm func(title, description string) (bool, error)
	prompt  func(a *Answers) error
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts, confirm: confirmOverwrite, prompt: promptAnswers}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		overwrite, err := w.confirm("Config file already exists", w.opts.ConfigPath+"\nOverwrite? (a backup will be created)")
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	defaults := config.DefaultConfig()
	answers := Answers{
		ServerURL: firstNonEmpty(w.opts.ServerURL, defaults.Server.URL),
		Token:     w.opts.Token,
		Theme:     firstNonEmpty(w.opts.Theme, defaults.TUI.Theme),
	}

	if !w.opts.Yes {
		if err := w.prompt(&answers); err != nil {
			return err
		}
	}

	cfg := defaults
	cfg.Server.URL = strings.TrimSpace(answers.ServerURL)
	cfg.Server.Token = strings.TrimSpace(answers.Token)
	cfg.TUI.Theme = answers.Theme

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid answers: %w", err)
	}

	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	if err := cfg.Write(w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	for _, warn := range cfg.Warnings() {
		p.Warnf("%s", warn.Message)
	}

	w.printNextSteps(p, cfg)
	return nil
}

func (w *Wizard) printNextSteps(p *printer.Printer, cfg config.Config) {
	p.Printf("")
	p.Section("Next Steps")

	step := 1
	if cfg.Server.Token == "" {
		p.Printf("  %d. Add a token to %s or export BELL_SERVER_TOKEN", step, w.opts.ConfigPath)
		step++
	}
	p.Printf("  %d. Run 'bell doctor' to check the connection", step)
	step++
	p.Printf("  %d. Run 'bell' to open your notifications", step)
}

func confirmOverwrite(title, description string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&overwrite).
		Run()
	return overwrite, err
}

func promptAnswers(a *Answers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Base URL of the notification server").
				Value(&a.ServerURL).
				Validate(validateServerURL),
			huh.NewInput().
				Title("Access token").
				Description("JWT or session token, leave blank to set it later").
				EchoMode(huh.EchoModePassword).
				Value(&a.Token).
				Validate(validateToken),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(styles.ThemeNames()...)...).
				Value(&a.Theme),
		),
	)
	return form.Run()
}

func validateServerURL(s string) error {
	cfg := config.DefaultConfig()
	cfg.Server.URL = strings.TrimSpace(s)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("must be an http or https URL")
	}
	return nil
}

func validateToken(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	if session.New(s).Expired() {
		return session.ErrExpired
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
