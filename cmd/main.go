package main

import (
	"fmt"
	"os"

	"github.com/ostafen/chkrecover/cmd/cmd"
	"github.com/ostafen/chkrecover/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("      _     _                                    ")
	fmt.Println("  ___| |__ | | ___ __ ___  ___ _____   _____ _ __ ")
	fmt.Println(" / __| '_ \\| |/ / '__/ _ \\/ __/ _ \\ \\ / / _ \\ '__|")
	fmt.Println("| (__| | | |   <| | |  __/ (_| (_) \\ V /  __/ |   ")
	fmt.Println(" \\___|_| |_|_|\\_\\_|  \\___|\\___\\___/ \\_/ \\___|_|   ")
	fmt.Println()
	fmt.Println("CHK fragment recovery tool")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
