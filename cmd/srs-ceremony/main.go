// Copyright 2025 Certen Protocol

// srs-ceremony is the command surface for the trusted-setup core:
// one subcommand per §6 operation, each a thin wrapper that loads a
// CeremonyConfig, reads its input files, calls into pkg/phase1 or
// pkg/phase2, and writes its output files back out. Exit codes follow
// §6: 0 success, 2 usage error, 1 any core error.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("srs-ceremony: ")
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: srs-ceremony <phase1|phase2|attest> <verb> [flags]")
		return 2
	}

	phase, verb, rest := args[0], args[1], args[2:]
	var err error
	switch phase {
	case "phase1":
		err = runPhase1(verb, rest)
	case "phase2":
		err = runPhase2(verb, rest)
	case "attest":
		err = runAttest(verb, rest)
	default:
		fmt.Fprintf(os.Stderr, "usage: unknown command %q, want phase1, phase2, or attest\n", phase)
		return 2
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				log.Printf("%v", err)
			}
			return 2
		}
		log.Printf("%v", err)
		return 1
	}
	return 0
}
