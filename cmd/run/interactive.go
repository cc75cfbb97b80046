package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type replModel struct {
	ctx      *jsbridge.Context
	eng      *engine.Engine
	filename string
	history  []string
	input    textinput.Model
	view     viewport.Model
	ready    bool
	seq      int
}

type evalResultMsg struct {
	entry string
}

func newReplModel(filename string, stackSize int) (*replModel, error) {
	ctx, eng, err := engine.NewWithConfig(&engine.Config{MaxCallStackSize: stackSize})
	if err != nil {
		return nil, err
	}

	if filename != "" {
		src, err := os.ReadFile(filename)
		if err != nil {
			_ = ctx.Close()
			return nil, fmt.Errorf("read script: %w", err)
		}
		v, err := ctx.Evaluate(string(src), filename)
		if err != nil {
			_ = ctx.Close()
			return nil, err
		}
		v.Release(ctx)
	}

	ti := textinput.New()
	ti.Prompt = promptStyle.Render("js> ")
	ti.Placeholder = "expression"
	ti.Focus()

	return &replModel{
		ctx:      ctx,
		eng:      eng,
		filename: filename,
		input:    ti,
	}, nil
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bodyHeight := msg.Height - 4
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		if !m.ready {
			m.view = viewport.New(msg.Width, bodyHeight)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = bodyHeight
		}
		m.refreshView()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			_ = m.ctx.Close()
			return m, tea.Quit

		case "enter":
			src := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if src == "" {
				return m, nil
			}
			return m, m.evaluate(src)

		case "esc":
			// Aborts a runaway script; the next eval re-arms the engine.
			m.eng.Interrupt("interrupted")

		case "pgup":
			m.view.HalfViewUp()

		case "pgdown":
			m.view.HalfViewDown()
		}

	case evalResultMsg:
		m.history = append(m.history, msg.entry)
		m.refreshView()
		m.view.GotoBottom()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *replModel) evaluate(src string) tea.Cmd {
	return func() tea.Msg {
		m.eng.ClearInterrupt()
		m.seq++
		name := fmt.Sprintf("<repl:%d>", m.seq)

		var b strings.Builder
		b.WriteString(promptStyle.Render("js> "))
		b.WriteString(src)
		b.WriteString("\n")

		v, err := m.ctx.Evaluate(src, name)
		if err != nil {
			b.WriteString(errorStyle.Render(err.Error()))
			return evalResultMsg{entry: b.String()}
		}
		out, rerr := render(m.ctx, v, false)
		v.Release(m.ctx)
		if rerr != nil {
			b.WriteString(errorStyle.Render(rerr.Error()))
			return evalResultMsg{entry: b.String()}
		}
		b.WriteString(resultStyle.Render(out))
		return evalResultMsg{entry: b.String()}
	}
}

func (m *replModel) refreshView() {
	if !m.ready {
		return
	}
	m.view.SetContent(strings.Join(m.history, "\n"))
}

func (m *replModel) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	title := "jsbridge repl"
	if m.filename != "" {
		title += " " + m.filename
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("live cells: %d", m.ctx.LiveCells())))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("enter eval • pgup/pgdn scroll • ctrl+c quit"))
	return b.String()
}

func runInteractive(filename string, stackSize int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return plainRepl(filename, stackSize)
	}

	m, err := newReplModel(filename, stackSize)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// plainRepl is the line-oriented fallback for non-terminal stdio.
func plainRepl(filename string, stackSize int) error {
	ctx, _, err := engine.NewWithConfig(&engine.Config{MaxCallStackSize: stackSize})
	if err != nil {
		return err
	}
	defer ctx.Close()

	if filename != "" {
		src, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		v, err := ctx.Evaluate(string(src), filename)
		if err != nil {
			return err
		}
		v.Release(ctx)
	}

	sc := bufio.NewScanner(os.Stdin)
	seq := 0
	for sc.Scan() {
		src := strings.TrimSpace(sc.Text())
		if src == "" {
			continue
		}
		seq++
		v, err := ctx.Evaluate(src, fmt.Sprintf("<repl:%d>", seq))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		out, rerr := render(ctx, v, false)
		v.Release(ctx)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, rerr)
			continue
		}
		fmt.Println(out)
	}
	return sc.Err()
}
