package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mickamy/automap/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("automap failed")
		os.Exit(1)
	}
}
