package main

import (
	"lending/server"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	srv, err := server.ServerInit()
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}
	go srv.Start()
	srv.Logger.GetLogger().Info("server initialized...")
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done
	srv.Stop()
	srv.Logger.GetLogger().Info("server stopped...")
}
