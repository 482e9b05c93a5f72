package main

import (
	"log"

	"github.com/timada-org/catodo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
