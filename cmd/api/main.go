package main

import "github.com/xavierca1/unic-leads/internal/cli"

func main() {
	cli.Execute()
}
