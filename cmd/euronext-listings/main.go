package main

import "github.com/pfrederiksen/euronext-listings/internal/cli"

func main() {
	cli.Execute()
}
