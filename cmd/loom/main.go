// Package main provides the Loom command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/loom-ml/loom/device"
	"github.com/loom-ml/loom/internal/config"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Loom %s\n", version)
			return
		case "info":
			printInfo()
			return
		}
	}

	fmt.Println("Loom - Tensor computation for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  info       Show devices and settings")
}

func printInfo() {
	cfg := config.FromEnv()
	fmt.Printf("default device: %s\n", cfg.DefaultDevice)
	fmt.Printf("workers:        %d\n", cfg.Workers)
	fmt.Printf("debug:          %v\n", cfg.Debug)

	n, err := device.AcceleratorCount()
	if err != nil {
		fmt.Println("accelerators:   none (cpu only)")
		return
	}
	fmt.Printf("accelerators:   %d\n", n)
}
