package main

import (
	"log"
	"os"

	"github.com/tdewolff/argp"
)

var (
	Error   *log.Logger
	Warning *log.Logger
)

func main() {
	Error = log.New(os.Stderr, "ERROR: ", 0)
	Warning = log.New(os.Stderr, "WARNING: ", 0)

	cmd := argp.New("Dump the SFNT table directory of a WOFF2 font")
	cmd.AddCmd(&Dump{}, "dump", "Decode a WOFF2 file and print its table directory")
	cmd.Parse()
}
