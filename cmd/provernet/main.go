// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/provernet/coordinator/lib/process"
	"github.com/provernet/coordinator/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &app{
		ctx:    ctx,
		stdout: os.Stdout,
		stderr: os.Stderr,
		output: printer{w: os.Stdout, terminal: term.IsTerminal(int(os.Stdout.Fd()))},
	}
	if err := env.root().Execute(os.Args[1:], env.stderr); err != nil {
		stop()
		process.Fatal(err)
	}
}

// app carries the per-invocation state every command closes over.
type app struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	output printer
}

func (a *app) root() *Command {
	return &Command{
		Name:    "provernet",
		Summary: "Client for the provernet proof coordinator",
		Subcommands: []*Command{
			a.requestCommand(),
			a.statusCommand(),
			a.detailsCommand(),
			a.listCommand(),
			a.fulfillCommand(),
			a.failCommand(),
			a.createProgramCommand(),
			a.programCommand(),
			a.nonceCommand(),
			a.ownerCommand(),
			a.artifactCommand(),
			a.uploadCommand(),
			a.downloadCommand(),
			a.healthCommand(),
			a.versionCommand(),
		},
	}
}

func (a *app) versionCommand() *Command {
	return &Command{
		Name:    "version",
		Summary: "Print the CLI version",
		Usage:   "provernet version",
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("version takes no arguments")
			}
			_, err := fmt.Fprintln(a.stdout, version.Info())
			return err
		},
	}
}
