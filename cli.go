//go:build cli
// +build cli

package main

import (
	_ "catalogsync.GO/custom"

	"catalogsync.GO/cmd"
	"catalogsync.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}
