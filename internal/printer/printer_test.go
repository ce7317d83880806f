package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Printf("plain %d", 1)
	p.Infof("info %s", "a")
	p.Successf("done")
	p.Warnf("careful")
	p.Errorf("broken")

	assert.Equal(t, "plain 1\n• info a\n✔ done\n● careful\n✘ broken\n", ansi.Strip(buf.String()))
}

func TestPrinter_Section(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Section("Bell Doctor")

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "Bell Doctor\n")
	assert.Contains(t, out, "────")
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))

	assert.NotNil(t, Ctx(context.Background()))
}
