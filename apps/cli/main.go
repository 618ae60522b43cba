package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pcasconnect/campus/core"
	"github.com/pcasconnect/campus/core/dashboard"
	"github.com/pcasconnect/campus/core/nav"
	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/gateway"
	logsvc "github.com/pcasconnect/campus/services/logger"
	"github.com/pcasconnect/campus/storage/sessionstore"
)

// application bundles the wired services the commands run against.
type application struct {
	conf     *core.Config
	log      core.Logger
	gw       *gateway.Client
	sessions *session.Service
	dash     *dashboard.Service
	guard    *nav.Guard
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	core.InitValidators()

	store, err := sessionstore.OpenSQLite(conf.Session.StorePath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session store: %v", err), err)
	}
	defer store.Close()

	gw := gateway.NewClient(conf)
	sessions := session.NewService(store, gw, logger)

	app := &application{
		conf:     conf,
		log:      logger,
		gw:       gw,
		sessions: sessions,
		dash:     dashboard.NewService(gw, sessions, logger),
		guard:    nav.NewGuard(sessions),
	}

	// =========================================================================
	// Run

	if err := newRootCmd(app).Execute(); err != nil {
		os.Exit(1)
	}
}
