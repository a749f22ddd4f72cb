package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/fukidashi/internal/auth"
)

func runHashKey(args []string) int {
	fs := flag.NewFlagSet("hash-key", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "hash-key requires exactly one argument: the access key to hash")
		return 2
	}

	hash, err := auth.HashAccessKey(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash access key failed: %v\n", err)
		return 1
	}

	fmt.Println(hash)
	return 0
}
