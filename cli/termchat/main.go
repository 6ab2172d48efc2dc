package main

import (
	"os"

	termchatcmder "github.com/papercomputeco/termchat/cmd/termchat"
)

func main() {
	cmd := termchatcmder.NewTermchatCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
