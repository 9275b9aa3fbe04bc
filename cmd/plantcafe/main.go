// Package main is the plantcafe command line: it serves the web
// application and runs its maintenance tasks.
package main

import "github.com/atinyakov/plantcafe/cmd/plantcafe/commands"

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	commands.Execute(version, buildDate)
}
