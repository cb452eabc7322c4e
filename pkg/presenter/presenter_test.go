package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewWithOptions(out, errOut, ColorNever), out, errOut
}

func TestError(t *testing.T) {
	t.Run("with context", func(t *testing.T) {
		p, out, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "while converting")
		assert.Empty(t, out.String())
		assert.Equal(t, "[ERROR] while converting: boom\n", errOut.String())
	})

	t.Run("without context", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(errors.New("boom"), "")
		assert.Equal(t, "[ERROR] boom\n", errOut.String())
	})

	t.Run("nil error is ignored", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.Error(nil, "context")
		assert.Empty(t, errOut.String())
	})

	t.Run("not muted by quiet mode", func(t *testing.T) {
		p, _, errOut := newTestPresenter()
		p.SetQuiet(true)
		p.Error(errors.New("boom"), "")
		assert.NotEmpty(t, errOut.String())
	})
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed")
	p.Warning("skipped")
	p.Info("done")

	assert.Contains(t, out.String(), "✓ installed\n")
	assert.Contains(t, out.String(), "⚠ skipped\n")
	assert.Contains(t, out.String(), "done\n")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Skills")
	assert.Equal(t, "Skills\n------\n", out.String())
}

func TestQuietMode(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("installed")
	p.Warning("skipped")
	p.Info("done")
	p.Section("Skills")
	p.Separator()

	assert.Empty(t, out.String())
}
