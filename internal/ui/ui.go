package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rosarium/internal/api"
	"github.com/five82/rosarium/internal/catalog"
	"github.com/five82/rosarium/internal/mutate"
	"github.com/five82/rosarium/internal/notify"
	"github.com/five82/rosarium/internal/query"
	"github.com/five82/rosarium/internal/session"
)

// Options configures the UI runtime.
type Options struct {
	Context    context.Context
	Transport  *api.Client
	Session    *session.Store
	Controller *query.Controller
	Catalog    *catalog.Client
	Actions    *mutate.Actions
	Notices    *notify.Channel
	ThemeName  string
	Ordering   string
	PrefsPath  string
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled. It wires the transport's activity counter, the
// notification channel, and the session-expired handler into the program's
// message loop.
func Run(opts Options) error {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	unsubscribe := opts.Transport.Activity().Subscribe(func(busy bool) {
		p.Send(busyMsg(busy))
	})
	defer unsubscribe()

	opts.Notices.SetSink(func(state notify.State) {
		p.Send(noticeMsg(state))
	})
	defer opts.Notices.SetSink(nil)

	opts.Transport.SetSessionExpiredHandler(func() {
		p.Send(sessionExpiredMsg{})
	})

	if ctx := opts.Context; ctx != nil {
		go func() {
			<-ctx.Done()
			p.Quit()
		}()
	}

	_, err := p.Run()
	return err
}
