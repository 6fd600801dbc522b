package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/goliatone/go-docfill/internal/cli"
	"github.com/goliatone/go-docfill/pkg/prompt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	if errors.Is(err, prompt.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "cancelado")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "docfill: %v\n", err)
	os.Exit(1)
}
