package main

import (
	"os"

	"horse.fit/fukidashi/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
