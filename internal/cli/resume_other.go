//go:build !unix

package cli

import (
	"context"

	"github.com/comitanigiacomo/kanso-daily/internal/adapters/visibility"
)

func forwardResume(ctx context.Context, bus *visibility.Bus) (stop func()) {
	return func() {}
}
