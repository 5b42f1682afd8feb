package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lguibr/ringrace/app"
	"github.com/lguibr/ringrace/console"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/utils"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file with RINGRACE_* settings")
	flag.Parse()

	cfg, err := utils.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	level, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log.SetLevel(level)

	opts := app.Options{}
	if cfg.Terminal {
		// The ring owns stdout; logs go to stderr so they can be redirected.
		log.SetOutput(os.Stderr)
		opts.Terminal = os.Stdout
		opts.ClearScreen = true
	}

	race, err := app.New(cfg, opts)
	if err != nil {
		log.Error("Failed to create race: %v", err)
		os.Exit(1)
	}
	if err := race.Start(); err != nil {
		log.Error("Failed to start race: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Keyboard {
		restore, err := console.EnableRawMode(os.Stdin.Fd())
		if err != nil {
			log.Warn("Keyboard disabled: %v", err)
		} else {
			defer restore()
			log.Info("Keys: %s", console.Help)
			kb := console.NewKeyboard(os.Stdin, race.Edges(), console.DefaultBindings(cfg))
			go func() {
				if err := kb.Run(ctx); err != nil && !errors.Is(err, console.ErrQuit) && !errors.Is(err, context.Canceled) {
					log.Error("Keyboard stopped: %v", err)
				}
				stop()
			}()
		}
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := race.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown: %v", err)
	}
}
