package main

import (
	"fmt"
	"math"
	"os"

	"github.com/wofflab/woff2"
	"github.com/wofflab/woff2/internal/sfntverify"
)

// Dump is the "dump" subcommand: decode a WOFF2 file and print its SFNT
// table directory, optionally writing the decoded bytes to disk.
type Dump struct {
	Output string `short:"o" desc:"Write the decoded SFNT to this file"`
	Input  string `index:"0" desc:"Input WOFF2 file"`
}

func (cmd *Dump) Run() error {
	b, err := os.ReadFile(cmd.Input)
	if err != nil {
		return err
	}

	font, err := woff2.Load(b)
	if err != nil {
		Error.Println(err)
		return err
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, font.Bytes(), 0644); err != nil {
			return err
		}
	}

	sf, err := sfntverify.Parse(font.Bytes())
	if err != nil {
		Warning.Println("decoded output does not parse back as SFNT:", err)
	}

	fmt.Printf("File: %s\n\n", cmd.Input)
	fmt.Printf("flavor: 0x%08X\n", font.Flavor)
	fmt.Printf("numTables: %d\n\n", font.NumTables)

	if sf != nil {
		fmt.Printf("numGlyphs: %d\n", sf.NumGlyphs)
		if family, ok := sf.Name(1); ok {
			fmt.Printf("family name: %s\n", family)
		}
		if full, ok := sf.Name(4); ok {
			fmt.Printf("full name: %s\n", full)
		}
	}

	fmt.Printf("\nTable directory:\n")
	nLen := int(math.Log10(float64(len(font.Bytes()))) + 1)
	for i := 0; i < int(font.NumTables); i++ {
		offset := 12 + i*16
		tag := string(font.Bytes()[offset : offset+4])
		checksum := beUint32(font.Bytes()[offset+4:])
		tableOffset := beUint32(font.Bytes()[offset+8:])
		length := beUint32(font.Bytes()[offset+12:])
		fmt.Printf("  %2d  %s  checksum=0x%08X  offset=%*d  length=%*d\n", i, tag, checksum, nLen, tableOffset, nLen, length)
	}
	return nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
