package main

import (
	"os"

	"github.com/AINative-studio/oauth2native/internal/cli"
	"github.com/AINative-studio/oauth2native/internal/logger"
)

func main() {
	logger.Init()

	if err := cli.Execute(); err != nil {
		logger.ErrorEvent().Err(err).Msg("oauth2native command failed")
		os.Exit(1)
	}
}
