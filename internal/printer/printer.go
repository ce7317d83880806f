// Package printer writes human-facing command output. Only commands that are
// not producing machine-readable output use it; JSON goes through iojson.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/bell/internal/core/styles"
)

const (
	iconInfo    = "•"
	iconSuccess = "✔"
	iconWarn    = "●"
	iconError   = "✘"
)

type ctxKey struct{}

// Printer renders styled status lines to a writer.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored on ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Writer exposes the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.CommandStyle.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessTextStyle.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningTextStyle.Render(iconWarn) + " " + fmt.Sprintf(format, args...))
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorTextStyle.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// Section writes a bold heading followed by a divider.
func (p *Printer) Section(title string) {
	p.line(styles.CommandHeaderStyle.Render(title))
	p.line(styles.DividerStyle.Render(strings.Repeat("─", max(len(title), 40))))
}
