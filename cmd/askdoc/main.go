package main

import (
	"fmt"
	"os"

	"github.com/askdoc-labs/askdoc/internal/adapters/driving/cli"
	"github.com/askdoc-labs/askdoc/internal/bootstrap"
)

func main() {
	cli.OnInit(bootstrap.Setup)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
