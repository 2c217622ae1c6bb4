package main

import (
	"embed"
	"os"

	"github.com/maruten0420/REDZONE-history/cmd"
)

//go:embed styles/*.yaml
var styleFS embed.FS

func main() {
	cmd.SetStyleFS(styleFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
