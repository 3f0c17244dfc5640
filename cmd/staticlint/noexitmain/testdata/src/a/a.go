package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("shutting down")
	os.Exit(1) // want "avoid using os.Exit in main.main"
}

func cleanup() {
	// os.Exit outside main.main is not reported.
	os.Exit(2)
}
