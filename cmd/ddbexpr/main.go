// ddbexpr compiles YAML expression descriptions into DynamoDB
// expression parameters.
//
// # Installation
//
//	go install github.com/solhaug/ddbexpr/cmd/ddbexpr@latest
//
// # Commands
//
//	ddbexpr compile   Compile a YAML document to expression parameters
//
// # Quick Start
//
// Describe the key condition, filters and update tree in YAML:
//
//	key:
//	  - name: pk
//	    equal: "user#42"
//	  - name: sk
//	    beginsWith: "order#"
//	update:
//	  - path: loginCount
//	    increment: 1
//
// Compile it:
//
//	ddbexpr compile request.yaml
//	cat request.yaml | ddbexpr compile -
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	// Remove the subcommand from args so flag parsing works
	os.Args = append([]string{os.Args[0]}, os.Args[2:]...)

	var err error
	switch cmd {
	case "compile":
		err = runCompile()
	case "help", "-h", "--help":
		printUsage()
		return
	case "version", "-v", "--version":
		fmt.Printf("ddbexpr version %s\n", version)
		return
	default:
		fmt.Fprintf(os.Stderr, "ddbexpr: unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ddbexpr %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ddbexpr - DynamoDB expression compiler

Usage:
  ddbexpr <command> [flags]

Commands:
  compile  Compile a YAML expression description to wire parameters

Examples:
  # Compile a request description:
  ddbexpr compile request.yaml

  # Read from stdin:
  cat request.yaml | ddbexpr compile -

  # Alias reserved words as literal #name placeholders and emit
  # safe names unaliased:
  ddbexpr compile --reserved --bare request.yaml

Run 'ddbexpr <command> --help' for more information on a command.`)
}
