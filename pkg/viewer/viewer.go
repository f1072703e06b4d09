// Package viewer shows side by side comparisons in a scrollable terminal
// pager.
package viewer

import (
	"context"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

const helpText = " q/Esc: next file  arrows/PgUp/PgDn: scroll "

// Pager shows each comparison full screen until the user dismisses it
type Pager struct{}

func New() *Pager {
	return &Pager{}
}

// Interactive reports whether both ends of the terminal are available, which
// the pager needs
func Interactive(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// quits reports whether the key dismisses the pager
func quits(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return event.Rune() == 'q' || event.Rune() == 'Q'
	}

	return false
}

func newTextView(title string, text string) *tview.TextView {
	view := tview.NewTextView().
		SetText(text).
		SetScrollable(true).
		SetWrap(false).
		SetDynamicColors(false)

	view.SetBorder(true).SetTitle(" " + title + " ")
	return view
}

func newLayout(title string, text string) (*tview.Flex, *tview.TextView) {
	view := newTextView(title, text)
	help := tview.NewTextView().SetText(helpText)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(view, 0, 1, true).
		AddItem(help, 1, 0, false)

	return layout, view
}

// Show blocks until the user dismisses the comparison or ctx is done
func (p *Pager) Show(ctx context.Context, title string, text string) error {
	app := tview.NewApplication()

	layout, _ := newLayout(title, text)
	app.SetRoot(layout, true)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if quits(event) {
			app.Stop()
			return nil
		}

		return event
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-done:
		}
	}()

	if err := app.Run(); err != nil {
		return err
	}

	return ctx.Err()
}
