package main

import (
	"fmt"
	"os"

	"fintrack/bank-import/cmd/account"
	"fintrack/bank-import/cmd/budget"
	"fintrack/bank-import/cmd/detect"
	"fintrack/bank-import/cmd/export"
	"fintrack/bank-import/cmd/forecast"
	"fintrack/bank-import/cmd/importcmd"
	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/cmd/serve"
	"fintrack/bank-import/cmd/suggest"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(account.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(importcmd.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
