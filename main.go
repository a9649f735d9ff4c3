package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/tvcat/tvcat/internal"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("Main")

func main() {
	defaultConfigPath, err := homedir.Expand("~/.config/tvcat/config.yaml")
	if err != nil {
		defaultConfigPath = "config.yaml"
	}

	configPath := flag.String("config", defaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	config := internal.TvcatConfig{}
	if err := config.LoadFromFile(*configPath); err != nil {
		log.Fatalf("%v\n", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := internal.New(config).Run(ctx); err != nil {
		log.Fatalf("tvcat exited with error: %v\n", err)
	}
}
