package main

import "os"

// Version is injected at build time.
var Version = "dev"

func main() {
	root := newRootCmd()
	root.Version = Version
	if err := root.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}
