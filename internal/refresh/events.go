package refresh

import (
	"context"
	"time"

	"github.com/facebookgo/clock"

	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/log"
)

// SettleDelay gives a new session time to finish starting before the query
// program is submitted.
const SettleDelay = time.Second

// Target is anything that can be refreshed.
type Target interface {
	Refresh(ctx context.Context) error
}

// WatchRuntime schedules a refresh SettleDelay after the foreground session
// changes to a running R session, or after an R runtime registers. The
// returned func unsubscribes.
func WatchRuntime(events executor.Events, rt executor.Runtime, target Target, clk clock.Clock) func() {
	if clk == nil {
		clk = clock.New()
	}
	schedule := func(reason string) {
		clk.AfterFunc(SettleDelay, func() {
			log.Debug("refresh after %s", reason)
			if err := target.Refresh(context.Background()); err != nil {
				log.Debug("refresh after %s: %v", reason, err)
			}
		})
	}

	offSession := events.OnDidChangeForegroundSession(func(sessionID string) {
		if sessionID == "" {
			return
		}
		ok, err := executor.HasActiveSession(context.Background(), rt, executor.LanguageR)
		if err != nil || !ok {
			return
		}
		schedule("session change")
	})
	offRuntime := events.OnDidRegisterRuntime(func(info executor.RuntimeInfo) {
		if info.LanguageID == executor.LanguageR {
			schedule("runtime registration")
		}
	})
	return func() {
		offSession()
		offRuntime()
	}
}
