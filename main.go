package main

import (
	"github.com/opencode-ai/agentchat/cmd"
	"github.com/opencode-ai/agentchat/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		logging.ErrorPersist("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
