package cli

import (
	"context"
	"crypto/md5"
	"log/slog"
	"os"
	"time"
)

// WatchFile polls path and sends its token whenever the contents change.
// The current contents are not sent. The channel closes when ctx is done.
func WatchFile(ctx context.Context, path string, interval time.Duration, logger *slog.Logger) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)

		last, _ := digest(path)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			sum, err := digest(path)
			if err != nil {
				logger.Debug("watch: cannot read file", "path", path, "error", err)
				continue
			}
			if sum == last {
				continue
			}
			last = sum

			token, err := ReadToken(path, nil)
			if err != nil {
				logger.Warn("watch: cannot read circuit", "path", path, "error", err)
				continue
			}
			logger.Info("Change detected, triggering reload", "path", path)
			select {
			case ch <- token:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func digest(path string) ([md5.Size]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return [md5.Size]byte{}, err
	}
	return md5.Sum(b), nil
}
