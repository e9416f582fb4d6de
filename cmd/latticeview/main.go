// latticeview renders crystal structures and Brillouin zones to images.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render":
		err = cmdRender(args)
	case "info":
		err = cmdInfo(args)
	case "validate", "check":
		err = cmdValidate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`latticeview - crystal structure and Brillouin zone renderer

Usage:
  latticeview <command> <file> [options]

Commands:
  render <file>     Render a structure or zone document to PNG/WebP
  info <file>       Show lattice and atom information
  validate <file>   Check a document against its schema

Render options:
  -o <path>                   Output file (.png or .webp)
  -align up:c,right:b         Align lattice directions with screen axes
  -rotate x,y,z,deg;...       Rotate about world axes, left to right
  -center COP|COC|i,j,...     Center on atoms, cell or selected atoms
  -fit full|none|i,j,...      Fit zoom to the target
  -margin <m>                 Fit margin in world units
  -wrap                       Show periodic images
  -width <W> -height <H>      Canvas size

Examples:
  latticeview render nacl.json -align up:c,right:b -o nacl.webp
  latticeview render bz.yaml -rotate 0,1,0,30 -fit full -margin 0.1
  latticeview info nacl.json`)
}
