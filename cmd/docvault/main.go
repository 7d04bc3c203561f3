// Package main is the entry point for the docvault server.
package main

import (
	"github.com/kart-io/docvault/cmd/docvault/app"
)

func main() {
	app.NewApp().Run()
}
