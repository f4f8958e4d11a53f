package main

import (
	"github.com/joho/godotenv"

	"github.com/rmarques/wildchat/internal/commands"
	"github.com/rmarques/wildchat/internal/logging"
)

func main() {
	// A .env file is optional; the token may come from the real environment.
	_ = godotenv.Load()

	closeLog := logging.Setup()
	defer closeLog()

	commands.Execute()
}
