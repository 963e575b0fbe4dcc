package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mirkobrombin/bocker/cmd"
	"github.com/mirkobrombin/bocker/pkg/engine"
)

var version = "0.1.0"

func main() {
	root := cmd.NewRootCommand()
	root.Version = version

	if err := root.Execute(); err != nil {
		fmt.Println(err)

		code := 1
		var engErr *engine.Error
		if errors.As(err, &engErr) {
			code = engErr.Category.ExitCode()
		}
		os.Exit(code)
	}
}
