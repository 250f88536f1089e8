package main

import (
	"log"
	"os"

	"github.com/TFMV/locscan/cmd"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("locscan: ")

	// Anything that panics past the command is reported without a trace.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error: unexpected failure: %v", r)
			os.Exit(cmd.ExitFailure)
		}
	}()

	if code := cmd.ExitCode(cmd.Execute()); code != cmd.ExitSuccess {
		os.Exit(code)
	}
}
