package main

import (
	"os"

	kbmcpcmder "github.com/alethainc/aletha-knowledge-base-mcp/cmd/kbmcp"
)

func main() {
	cmd := kbmcpcmder.NewKbmcpCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
