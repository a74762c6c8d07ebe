// Package view holds the transport-neutral shape of a bot reply.
package view

import "concierge-bot/internal/bot/intent"

// Keyboard selects the reply keyboard shown under the input field.
type Keyboard int

const (
	KeyboardKeep Keyboard = iota
	KeyboardRequestContact
	KeyboardRemove
)

// Button is either an intent button or a link button when URL is set.
type Button struct {
	Label  string
	Intent intent.Intent
	URL    string
}

type View struct {
	// Text is HTML formatted.
	Text     string
	Rows     [][]Button
	Keyboard Keyboard
	// Toast is an ephemeral acknowledgement shown for callback queries.
	Toast string
}

func Action(label string, in intent.Intent) Button {
	return Button{Label: label, Intent: in}
}

func Link(label, url string) Button {
	return Button{Label: label, URL: url}
}

// Row is a single row of buttons.
func Row(buttons ...Button) []Button {
	return buttons
}

// Grid lays buttons out perRow to a row.
func Grid(buttons []Button, perRow int) [][]Button {
	if perRow <= 0 {
		perRow = 1
	}
	rows := make([][]Button, 0, (len(buttons)+perRow-1)/perRow)
	for start := 0; start < len(buttons); start += perRow {
		end := start + perRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[start:end])
	}
	return rows
}

// Append adds rows and returns the view for chaining.
func (v View) Append(rows ...[]Button) View {
	for _, r := range rows {
		if len(r) > 0 {
			v.Rows = append(v.Rows, r)
		}
	}
	return v
}
