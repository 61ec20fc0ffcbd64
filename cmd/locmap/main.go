package main

import (
	"flag"
	"io"
	"log"
	"os"
	"pickup-delivery-planner/internal/adapters/payload"
	"pickup-delivery-planner/internal/services"
)

// locmap prints the flat index layout of a planning input for manual inspection.
func main() {
	path := flag.String("input", "", "planning input JSON (stdin when empty)")
	flag.Parse()

	var r io.Reader = os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	snap, err := payload.DecodeSnapshot(r)
	if err != nil {
		log.Fatal(err)
	}

	if err := services.WriteLocationMap(os.Stdout, services.LocationMap(snap)); err != nil {
		log.Fatal(err)
	}
}
