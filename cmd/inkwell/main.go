package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupted generations already reported their state.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "inkwell:", err)
		}
		return 1
	}
	return 0
}
