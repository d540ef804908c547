package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arnavsurve/csimple/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// a failed check has already printed its diagnostic
		if !errors.Is(err, cmd.ErrCheckFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
