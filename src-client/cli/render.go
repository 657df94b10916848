package cli

import (
	"eventcal/src-client/calendar"
)

func formatSpan(event calendar.Event) string {
	if event.AllDay {
		return event.Start.Format("Mon Jan 2") + " (all day)"
	}
	return event.Start.Format("Mon Jan 2 3:04 PM") + " - " + event.End.Format("3:04 PM")
}

func renderList(events []calendar.Event, p *printer) {
	if len(events) == 0 {
		p.println("No events")
		return
	}
	for _, event := range events {
		p.printf("%4d  %-30s  %s\n", event.ID, event.Title, formatSpan(event))
	}
}

// the side panel of the calendar
func renderToday(state *calendar.State, p *printer) {
	p.println("Upcoming Events")
	today := state.Today()
	if len(today) == 0 {
		p.println("  No events today!")
		return
	}
	for _, event := range today {
		p.printf("  %s  %s - %s\n", event.Title, event.Start.Format("3:04 PM"), event.End.Format("3:04 PM"))
	}
}

func renderDraft(draft calendar.Draft, p *printer) {
	p.println("Create Event")
	p.printf("  title:  %s\n  start:  %s\n  end:    %s\n  allday: %t\n", draft.Title, draft.Start, draft.End, draft.AllDay)
	p.println(`fill it with "title", "start", "end", "allday" then "save" or "cancel"`)
}
