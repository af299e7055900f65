// agent/cmd/agent/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmacy-refill-dispatch/config"
	"pharmacy-refill-dispatch/internal/agent"
	"pharmacy-refill-dispatch/internal/archive"
	"pharmacy-refill-dispatch/internal/printer"
)

func main() {
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if cfg.Agent.StoreID == "" {
		log.Fatal("STORE_ID is required (e.g. STORE_ID=157)")
	}

	client := agent.NewClient(cfg.Agent.ServerURL, time.Duration(cfg.Agent.HTTPTimeout)*time.Second)

	sender := resolvePrinter(cfg, client)

	worker := &agent.Worker{
		StoreID:  cfg.Agent.StoreID,
		Client:   client,
		Printer:  sender,
		Interval: time.Duration(cfg.Agent.PollInterval) * time.Second,
	}

	if cfg.S3.Bucket != "" {
		uploader, err := archive.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to init label archive: %v", err)
		}
		worker.Archive = uploader
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.Run(ctx)
}

// resolvePrinter picks the label destination: locally configured printer
// first, then the server's store directory, then console (dry-run) mode.
func resolvePrinter(cfg config.Config, client *agent.Client) printer.Sender {
	timeout := time.Duration(cfg.Printer.Timeout) * time.Second

	if cfg.Printer.Address != "" {
		log.Printf("Printer: %s:%d", cfg.Printer.Address, cfg.Printer.Port)
		return &printer.TCPSender{Host: cfg.Printer.Address, Port: cfg.Printer.Port, Timeout: timeout}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if store, err := client.LookupStore(ctx, cfg.Agent.StoreID); err == nil && store.PrinterAddress != "" {
		log.Printf("Printer (from store directory): %s:%d", store.PrinterAddress, store.PrinterPort)
		return &printer.TCPSender{Host: store.PrinterAddress, Port: store.PrinterPort, Timeout: timeout}
	}

	log.Println("WARNING: No printer configured. Running in console mode; ZPL goes to stdout.")
	return &printer.ConsoleSender{Out: os.Stdout}
}
