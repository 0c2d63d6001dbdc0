package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/saiputravu/tickbook/cmd/tickbookctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("tickbookctl exiting with error")
		os.Exit(1)
	}
}
