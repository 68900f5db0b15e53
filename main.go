package main

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/cmd"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
