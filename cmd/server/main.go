package main

import (
	"github.com/devconnect/devconnect/internal/app"
	"github.com/devconnect/devconnect/internal/server"
)

func main() {
	// Build the service graph and assemble the server from it.
	s := server.New(app.New())

	// Register all application routes.
	s.RegisterRoutes()

	// Start the server.
	s.Start(s.Cfg.Addr)
}
