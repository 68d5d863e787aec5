package settings

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Updater consumes messages produced by commands
type Updater interface {
	Update(msg tea.Msg) (tea.Cmd, bool)
}

// Drain runs cmd and everything it leads to without a terminal. Commands of
// one round run concurrently; their messages are applied one at a time in
// arrival order, as a Bubble Tea program would.
func Drain(ctx context.Context, u Updater, cmd tea.Cmd) error {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		msgs, err := runRound(ctx, queue)
		if err != nil {
			return err
		}
		queue = queue[:0]
		for _, msg := range msgs {
			if batch, ok := msg.(tea.BatchMsg); ok {
				queue = append(queue, batch...)
				continue
			}
			if next, _ := u.Update(msg); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return nil
}

func runRound(ctx context.Context, cmds []tea.Cmd) ([]tea.Msg, error) {
	var (
		mu   sync.Mutex
		msgs []tea.Msg
	)
	eg, egctx := errgroup.WithContext(ctx)
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		cmd := cmd
		eg.Go(func() error {
			done := make(chan tea.Msg, 1)
			go func() { done <- cmd() }()
			select {
			case msg := <-done:
				if msg != nil {
					mu.Lock()
					msgs = append(msgs, msg)
					mu.Unlock()
				}
				return nil
			case <-egctx.Done():
				return egctx.Err()
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return msgs, nil
}
