package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/philjestin/boatmanapp-sub000/internal/app"
	"github.com/philjestin/boatmanapp-sub000/internal/client"
	"github.com/philjestin/boatmanapp-sub000/internal/config"
	"github.com/philjestin/boatmanapp-sub000/internal/logging"
	"github.com/philjestin/boatmanapp-sub000/internal/state"
	"github.com/philjestin/boatmanapp-sub000/internal/store"
	"github.com/philjestin/boatmanapp-sub000/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "boatman:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel()))

	storePath, err := config.StorePath()
	if err != nil {
		return err
	}
	uiStore, err := store.NewBboltUIStateStore(storePath)
	if err != nil {
		return err
	}
	defer uiStore.Close()

	ctx := context.Background()
	uiState, err := uiStore.Load(ctx)
	if err != nil {
		log.Warn("failed to load ui state", logging.F("err", err))
		uiState = &types.UIState{}
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, 10*time.Second)
	transport, dialErr := client.Dial(dialCtx, cfg.BackendURL(), client.DialOptions{
		CallTimeout: cfg.CallTimeout(),
		Logger:      log.With(logging.F("component", "transport")),
	})
	cancelDial()

	var engine *state.Engine
	var fatal error
	if dialErr != nil {
		fatal = dialErr
		log.Error("backend dial failed", logging.F("err", dialErr))
	} else {
		engine = state.NewEngine(client.New(transport), state.Options{
			PageSize: cfg.PageSize(),
			Logger:   log.With(logging.F("component", "engine")),
		})
		defer engine.Close()
		defer transport.Close()
		if err := engine.Start(ctx); err != nil {
			fatal = err
			log.Error("engine start failed", logging.F("err", err))
		}
	}

	// The surface comes up either way; a startup failure renders the
	// full-screen error boundary instead of the session list.
	model := app.NewModel(engine, uiStore, *uiState)
	if fatal != nil {
		model = model.WithFatal(fatal)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	detach := model.Attach(program)
	defer detach()

	if transport != nil {
		go func() {
			if err, ok := <-transport.Closed(); ok && err != nil {
				program.Send(app.Fatal(err)())
			}
		}()
	}

	_, err = program.Run()
	return err
}
