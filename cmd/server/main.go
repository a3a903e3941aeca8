package main

import (
	"context"
	"os"

	"chatbot-admin/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
