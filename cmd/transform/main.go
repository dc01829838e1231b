package main

import (
	"os"

	"github.com/JonMunkholm/transformer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
