// Package loop runs the game for one terminal: the Input → Update → Draw
// cycle, the screens, and the hub that ties SSH sessions together.
package loop

import (
	"bufio"
	"context"
	"io"
)

// Run plays a game on r and w until the player quits or ctx is cancelled.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts ClientOptions) error {
	return NewClient(r, w, opts).Run(ctx)
}
