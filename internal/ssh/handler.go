package ssh

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/muesli/termenv"

	"github.com/pfassina/lore/internal/app"
	"github.com/pfassina/lore/internal/config"
	"github.com/pfassina/lore/internal/live"
)

// NewHandler returns a Bubble Tea handler for SSH sessions. Every session
// gets its own live session on the shared backend.
func NewHandler(cfg config.Config, b *live.Backend, logger *log.Logger) bts.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		renderer := bts.MakeRenderer(sess)
		out := termenv.NewOutput(sess)

		a, err := app.New(app.Options{
			Config:     cfg,
			Connect:    app.Local(b, logger),
			DetectDark: renderer.HasDarkBackground,
			// The client terminal owns the clipboard; OSC 52 reaches it.
			Copy: func(s string) error {
				out.Copy(s)
				return nil
			},
			Mode:   "SSH",
			Logger: logger.With("user", sess.User(), "remote", sess.RemoteAddr().String()),
		})
		if err != nil {
			logger.Error("start session", "err", err)
			wish.Fatalln(sess, err)
			return nil, nil
		}
		go func() {
			<-sess.Context().Done()
			a.Close()
		}()

		opts := []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
		}
		opts = append(opts, bts.MakeOptions(sess)...)

		return a, opts
	}
}
