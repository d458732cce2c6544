package main

import (
	cmd "github.com/getzep/nlu-authoring/cmd/nlu-authoring"
	"github.com/getzep/nlu-authoring/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting nlu-authoring")
	cmd.Execute()
}
