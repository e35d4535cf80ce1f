// Package main serves the in-memory stub backend for local development.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/osanchezp/ecotrack/internal/logging"
	"github.com/osanchezp/ecotrack/internal/models"
	"github.com/osanchezp/ecotrack/internal/stubserver"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "listen address")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := logging.NewLogger(*logLevel)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	server := stubserver.New(seed(), logger)

	logger.Info("stub backend listening", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, server.Router()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// seed returns a dataset with a demo user, a few dumpsters, and plants
// with capacity for the next week.
func seed() *stubserver.Data {
	data := stubserver.NewData()
	data.AddUser("demo@ecotrack.dev", "demo")

	data.AddDumpster(models.Dumpster{Location: "Main St 1", PostalCode: 28001, Capacity: 500, CurrentFill: 100, FillLevelTag: "GREEN"})
	data.AddDumpster(models.Dumpster{Location: "Elm Ave 42", PostalCode: 28001, Capacity: 800, CurrentFill: 620, FillLevelTag: "ORANGE"})
	data.AddDumpster(models.Dumpster{Location: "Harbor Rd 7", PostalCode: 8002, Capacity: 300, CurrentFill: 300, FillLevelTag: "RED"})

	data.AddPlant(models.RecyclingPlant{Name: "NorthPlant", Location: "Industrial Park 3", PostalCode: 28010, MaxCapacity: 10000, CurrentFill: 4200})
	data.AddPlant(models.RecyclingPlant{Name: "RiversidePlant", Location: "Dock 12", PostalCode: 8003, MaxCapacity: 6000, CurrentFill: 5100})

	today := models.DateOf(time.Now())
	for i := 0; i < 7; i++ {
		day := models.DateOf(today.Time().AddDate(0, 0, i))
		data.SetCapacity("NorthPlant", day, 5800-i*100)
		data.SetCapacity("RiversidePlant", day, 900)
	}
	return data
}
