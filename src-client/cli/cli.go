// Package cli is a line based terminal front for the calendar client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"eventcal/src-client/calendar"

	"golang.org/x/text/cases"
)

const helpText = `commands:
  ls                          list every event
  today                       events happening today
  reload                      fetch the events from the server again
  new                         open the creation form
  title|start|end <value>     fill the form, times accept "2024-03-04T09:00" or "tomorrow 3pm"
  allday yes|no               mark the draft as an all-day event
  save                        create the event from the form
  cancel                      close the form
  mv <id> <start> | <end>     reschedule an event, append "| allday" for all-day
  rm <id>                     delete an event
  help                        show this text
  quit                        leave`

type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *printer) println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, a...)
}

func (p *printer) notice(n calendar.Notice) {
	switch n.Level {
	case calendar.NoticeError:
		p.println("! " + n.Message)
	default:
		p.println("* " + n.Message)
	}
}

// Run loads the calendar from baseURL and reads commands from in until quit
// or EOF.
func Run(ctx context.Context, baseURL string, in io.Reader, out io.Writer) error {
	p := &printer{out: out}
	state := calendar.NewState(calendar.NewHTTPAPI(baseURL), calendar.WithNotifier(p.notice))
	return run(ctx, state, in, p)
}

func run(ctx context.Context, state *calendar.State, in io.Reader, p *printer) error {
	// a failed load is reported by the notifier, the calendar starts empty
	if err := state.Load(ctx); err == nil {
		p.println(`calendar loaded, type "help" for commands`)
	} else {
		p.println(`type "reload" to try again, "help" for commands`)
	}
	renderToday(state, p)

	fold := cases.Fold()
	scanner := bufio.NewScanner(in)
	prompt := func() bool {
		p.printf("> ")
		return scanner.Scan()
	}
	for prompt() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, args, _ := strings.Cut(line, " ")
		args = strings.TrimSpace(args)

		switch fold.String(cmd) {
		case "ls":
			renderList(state.Events(), p)
		case "today":
			renderToday(state, p)
		case "reload":
			if err := state.Load(ctx); err == nil {
				renderList(state.Events(), p)
			}
		case "new":
			state.OpenModal()
			renderDraft(state.Draft(), p)
		case "title", "start", "end":
			if err := state.SetDraftField(fold.String(cmd), args); err != nil {
				p.println("! " + formError(err))
			}
		case "allday":
			value := "false"
			if yes(fold.String(args)) {
				value = "true"
			}
			if err := state.SetDraftField("all_day", value); err != nil {
				p.println("! " + formError(err))
			}
		case "save":
			if !state.ModalVisible() {
				p.println(`! open the form with "new" first`)
				continue
			}
			// failures are reported through the notifier
			_, _ = state.SubmitCreation(ctx)
		case "cancel":
			state.CloseModal()
		case "mv":
			reschedule(ctx, state, args, p)
		case "rm":
			remove(ctx, state, args, scanner, p)
		case "help":
			p.println(helpText)
		case "quit", "exit":
			return nil
		default:
			p.printf("! unknown command %q, try \"help\"\n", cmd)
		}
	}
	return scanner.Err()
}

func yes(answer string) bool {
	switch answer {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func formError(err error) string {
	if errors.Is(err, calendar.ErrModalHidden) {
		return `open the form with "new" first`
	}
	return err.Error()
}

func parseID(args string) (int64, string, error) {
	idStr, rest, _ := strings.Cut(args, " ")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid event id %q", idStr)
	}
	return id, strings.TrimSpace(rest), nil
}

func reschedule(ctx context.Context, state *calendar.State, args string, p *printer) {
	id, rest, err := parseID(args)
	if err != nil {
		p.println("! " + err.Error())
		return
	}
	parts := strings.Split(rest, "|")
	if len(parts) < 2 {
		p.println("! usage: mv <id> <start> | <end>")
		return
	}
	start, err := state.ParseTime(parts[0])
	if err != nil {
		p.println("! " + err.Error())
		return
	}
	end, err := state.ParseTime(parts[1])
	if err != nil {
		p.println("! " + err.Error())
		return
	}
	allDay := len(parts) > 2 && cases.Fold().String(strings.TrimSpace(parts[2])) == "allday"

	if err := state.Reschedule(ctx, id, start, end, allDay); errors.Is(err, calendar.ErrNotFound) {
		p.println("! " + err.Error())
	}
}

func remove(ctx context.Context, state *calendar.State, args string, scanner *bufio.Scanner, p *printer) {
	id, _, err := parseID(args)
	if err != nil {
		p.println("! " + err.Error())
		return
	}
	deleted, err := state.Delete(ctx, id, func(event calendar.Event) bool {
		p.printf("Do you want to delete %q? [y/N] ", event.Title)
		if !scanner.Scan() {
			return false
		}
		return yes(cases.Fold().String(strings.TrimSpace(scanner.Text())))
	})
	switch {
	case errors.Is(err, calendar.ErrNotFound):
		p.println("! " + err.Error())
	case deleted:
		p.println("* deleted")
	}
}
