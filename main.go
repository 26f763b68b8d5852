package main

import (
	cmd "github.com/openmhealth/shimmock/cmd/shimmock"
	"github.com/openmhealth/shimmock/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting shimmock")
	cmd.Execute()
}
