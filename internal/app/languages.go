package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/fukidashi/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	for _, option := range translation.LanguageOptions(nil) {
		fmt.Printf("%s\t%s\n", option.Code, option.Label)
	}
	return 0
}
