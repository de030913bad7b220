package app

import "github.com/amirasaad/ledger/pkg/handler"

// setupEventBus registers the ledger event handlers with the configured bus.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	handler.RegisterLedgerHandlers(a.Deps.EventBus, a.Deps.Cache, a.Deps.Logger)
}
