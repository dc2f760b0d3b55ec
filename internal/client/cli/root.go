package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) prompt() string {
	st := a.controller.State()
	s := "offline"
	if st.Online {
		s = "online"
		if st.LocationSharing {
			s += ", sharing"
		}
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Status() string {
	st := a.controller.State()
	if !st.Online {
		return "offline"
	}
	if st.LocationSharing {
		return "online, location sharing on"
	}
	return "online, location sharing off"
}

func (a *App) GoOnline(ctx context.Context) error {
	return a.controller.SetOnline(ctx, true)
}

func (a *App) GoOffline(ctx context.Context) error {
	return a.controller.SetOnline(ctx, false)
}

func (a *App) SetSharing(ctx context.Context, enabled bool) error {
	return a.controller.SetLocationSharing(ctx, enabled)
}

func (a *App) Locate() string {
	fix := a.session.LastFix()
	if fix == nil {
		return "no position yet"
	}
	return fmt.Sprintf("%.6f, %.6f (accuracy %.0fm, at %s)",
		fix.Latitude, fix.Longitude, fix.Accuracy, fix.CapturedAt.Format("15:04:05"))
}

// Root restores visibility from the previous run and hands control to the
// command loop.
func (a *App) Root(ctx context.Context) {

	log.Println("Carrier presence agent (type 'help' for commands)")

	if err := a.controller.Init(ctx); err != nil {
		log.Printf("state restore failed: %s", err.Error())
	}

	runREPL(ctx, a, a.prompt, bufio.NewScanner(os.Stdin))
}
