package client

import (
	"strings"
)

// Render draws the state as plain text. Loading hides the joke area, a
// message always comes with a retry hint and the offline banner shows no
// matter what else is on screen.
func Render(s State) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString("! ")
		b.WriteString(s.Message)
		b.WriteString("  [r] Try Again\n")
	}

	if !s.Online {
		b.WriteString("~ You are currently offline\n")
	}

	switch joke, ok := s.Current(); {
	case s.Loading:
		b.WriteString("Loading...\n")
	case ok:
		b.WriteString("\n")
		b.WriteString(joke.Title)
		b.WriteString("\n")
		b.WriteString(joke.Body)
		b.WriteString("\n\n[n] Next joke\n")
	default:
		b.WriteString("No data available  [r] Refresh\n")
	}

	return b.String()
}
