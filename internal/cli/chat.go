package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/calendarplan/calendarplan/internal/app"
	"github.com/calendarplan/calendarplan/pkg/assistant"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

const chatHelp = "Commands: /events, /reload, /quit"

func newChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the calendar assistant in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := app.BuildDependencies(cmd.Context(), opts.cfg, app.Options{Offline: opts.offline})
			if err != nil {
				return err
			}
			defer deps.Close()
			return runChat(cmd, deps.Assistant)
		},
	}
}

func runChat(cmd *cobra.Command, a *assistant.Assistant) error {
	out := cmd.OutOrStdout()
	for _, m := range a.Messages() {
		printMessage(out, m)
	}
	fmt.Fprintln(out, hintStyle.Render(chatHelp))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/events":
			printEvents(out, a.Events())
			continue
		case "/reload":
			if err := a.Reload(cmd.Context()); err != nil {
				fmt.Fprintln(out, hintStyle.Render("reload failed: "+err.Error()))
				continue
			}
			printEvents(out, a.Events())
			continue
		}

		turn, err := a.Send(cmd.Context(), line)
		if err != nil {
			return err
		}
		// the first message is the user's own line, already on screen
		for _, m := range turn.Messages[1:] {
			printMessage(out, m)
		}
		if turn.ShowEvents() {
			printEvents(out, a.Events())
		}
	}
}

func printMessage(out io.Writer, m assistant.ChatMessage) {
	if m.FromUser {
		fmt.Fprintln(out, userStyle.Render("you: ")+m.Content)
		return
	}
	fmt.Fprintln(out, assistantStyle.Render(m.Content))
}

func printEvents(out io.Writer, events []calendar.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, hintStyle.Render("No events scheduled."))
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %s-%s  %s [%s]", e.StartTime.Format("Mon Jan 2"), e.StartTime.Format("15:04"), e.EndTime.Format("15:04"), e.Title, e.Priority)
		if e.IsCompleted {
			line += " (done)"
		}
		fmt.Fprintln(out, eventStyle.Render(line))
	}
}
