// Command greenctl drives a green-cli wallet from the shell: queries print
// JSON on stdout, logs go to stderr or the configured log file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, &app{}, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "greenctl:", err)
		os.Exit(1)
	}
}
