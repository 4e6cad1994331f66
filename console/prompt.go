package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// question describes one line of operator input.
type question struct {
	Text         string
	DefaultValue string

	// Parse, when set, runs on the submitted value.
	Parse func(string) error
}

// inputPrompt is a tea.Model that reads one answer through a text input and
// quits on Enter. Esc, Ctrl+C or Ctrl+D on an empty line cancel it.
type inputPrompt struct {
	Input textinput.Model
	Data  question

	submitted bool
	cancelled bool
	err       error
}

func newInputPrompt(q question) inputPrompt {
	input := textinput.New()
	input.Prompt = fmt.Sprintf("%s: ", q.Text)
	input.Placeholder = q.DefaultValue
	input.Focus()
	return inputPrompt{Input: input, Data: q}
}

// Value is the trimmed answer, or the default when nothing was typed.
func (m inputPrompt) Value() string {
	if v := strings.TrimSpace(m.Input.Value()); v != "" {
		return v
	}
	return m.Data.DefaultValue
}

func (m inputPrompt) Init() tea.Cmd {
	return nil
}

func (m inputPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter, tea.KeyCtrlJ:
			m.submitted = true
			if m.Data.Parse != nil {
				m.err = m.Data.Parse(m.Value())
			}
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.Input.Value() == "" {
				m.cancelled = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m inputPrompt) View() string {
	if m.submitted || m.cancelled {
		return m.Input.Prompt + m.Input.Value() + "\n"
	}
	return m.Input.View()
}

// ask runs one prompt program. On a terminal the program owns the input and
// renders the text input in place. Otherwise the next line is read and typed
// into the prompt followed by Enter, so scripted input keeps its line
// boundaries between prompts.
func (c *Console) ask(ctx context.Context, q question) (string, error) {
	m := newInputPrompt(q)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(c.out)}

	if c.tty != nil {
		opts = append(opts, tea.WithInput(c.tty))
	} else {
		line, err := c.lines.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		opts = append(opts,
			tea.WithInput(strings.NewReader(line+"\r")),
			tea.WithoutRenderer(),
			tea.WithoutSignalHandler(),
		)
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("prompt %q: %w", q.Text, err)
	}
	result, ok := final.(inputPrompt)
	if !ok {
		return "", fmt.Errorf("prompt %q: unexpected model %T", q.Text, final)
	}
	if c.tty == nil {
		// Without a renderer the answered prompt is echoed so the transcript
		// reads like a terminal session.
		fmt.Fprint(c.out, result.View())
	}
	if result.cancelled || !result.submitted {
		return "", io.EOF
	}
	if result.err != nil {
		return "", result.err
	}
	return result.Value(), nil
}

// terminal returns in as a file when it is an interactive character device.
func terminal(in io.Reader) *os.File {
	f, ok := in.(*os.File)
	if !ok {
		return nil
	}
	info, err := f.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return nil
	}
	return f
}
