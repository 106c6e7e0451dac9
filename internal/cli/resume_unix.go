//go:build unix

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/comitanigiacomo/kanso-daily/internal/adapters/visibility"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

// forwardResume turns SIGCONT into a focus event until ctx ends or the
// returned stop is called.
func forwardResume(ctx context.Context, bus *visibility.Bus) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGCONT)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-sigs:
				bus.Emit(domain.EventFocus)
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
