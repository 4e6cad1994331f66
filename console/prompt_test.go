package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeKeys(t *testing.T, m inputPrompt, msgs ...tea.Msg) inputPrompt {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	got, ok := model.(inputPrompt)
	require.True(t, ok)
	return got
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInputPromptSubmit(t *testing.T) {
	m := newInputPrompt(question{Text: "Team name"})
	assert.Equal(t, "Team name: ", m.Input.Prompt)

	m = typeKeys(t, m, runes("Lions"))
	assert.False(t, m.submitted)

	m = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.submitted)
	assert.Equal(t, "Lions", m.Value())
	assert.Equal(t, "Team name: Lions\n", m.View())
}

func TestInputPromptDefaultAndParse(t *testing.T) {
	m := newInputPrompt(question{Text: "Save? (y/n)", DefaultValue: "n"})
	m = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.True(t, m.submitted)
	assert.Equal(t, "n", m.Value())

	errOdd := errors.New("odd")
	m = newInputPrompt(question{Text: "Even", Parse: func(v string) error {
		if v != "2" {
			return errOdd
		}
		return nil
	}})
	m = typeKeys(t, m, runes("3"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.ErrorIs(t, m.err, errOdd)
}

func TestInputPromptCancel(t *testing.T) {
	m := typeKeys(t, newInputPrompt(question{Text: "Name"}), tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.True(t, m.cancelled)

	m = typeKeys(t, newInputPrompt(question{Text: "Name"}), runes("Ann"), tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.False(t, m.cancelled, "ctrl+d only cancels an empty line")

	m = typeKeys(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.cancelled)
}

func TestAskReadsScriptedLines(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	c := New(newService(t), "Cup", script("  Owls  ", "東京FC"), &out)

	got, err := c.ask(ctx, question{Text: "Team name"})
	require.NoError(t, err)
	assert.Equal(t, "Owls", got)

	got, err = c.prompt(ctx, "Team name")
	require.NoError(t, err)
	assert.Equal(t, "東京FC", got)
	assert.Contains(t, out.String(), "Team name: 東京FC\n")

	_, err = c.prompt(ctx, "Team name")
	assert.ErrorIs(t, err, io.EOF)
}

func TestConfirmAndChoose(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	c := New(newService(t), "Cup", script("", "Y", "2", "7", "two"), &out)

	ok, err := c.confirm(ctx, "Save?")
	require.NoError(t, err)
	assert.False(t, ok, "empty answer means no")

	ok, err = c.confirm(ctx, "Save?")
	require.NoError(t, err)
	assert.True(t, ok)

	options := []string{"Lions", "Tigers"}
	idx, err := c.choose(ctx, "Team number", options)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "2. Tigers\n")

	_, err = c.choose(ctx, "Team number", options)
	assert.EqualError(t, err, "no option 7")

	_, err = c.choose(ctx, "Team number", options)
	assert.EqualError(t, err, `"two" is not a number`)
}
