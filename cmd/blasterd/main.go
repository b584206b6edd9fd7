package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vkngwrapper/bulletblaster/config"
	"github.com/vkngwrapper/bulletblaster/logging"
	"github.com/vkngwrapper/bulletblaster/netlink"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := cfg.Network.Address()
	logger.WithField("address", address).Info("listening")

	server := &netlink.Server{Log: logger}
	if err := server.ListenAndServe(ctx, address); err != nil {
		logger.Fatalf("%+v", err)
	}
}
