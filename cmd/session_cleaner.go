package main

import (
	"context"
	"log"
	"time"

	"illustraBack/internal/auth"
)

const sessionCleanerInterval = time.Minute

// startSessionCleaner ends expired admin sessions in the background so
// subscribers hear about expiry without waiting for the next request.
func startSessionCleaner(ctx context.Context, gateway *auth.Gateway, infoLog, errorLog *log.Logger) {
	if gateway == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(sessionCleanerInterval)
		defer ticker.Stop()

		runOnce := func() {
			defer func() {
				if err := recover(); err != nil && errorLog != nil {
					errorLog.Printf("session cleaner: %v", err)
				}
			}()
			if n := gateway.ExpireSessions(); n > 0 && infoLog != nil {
				infoLog.Printf("session cleaner: ended %d expired admin sessions", n)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
