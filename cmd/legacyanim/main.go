// legacyanim is a headless tool for animator configs: it validates config
// files and simulates trigger sequences frame by frame.
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
