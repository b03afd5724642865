package main

import "github.com/LeJamon/solcastd/internal/cli"

func main() {
	cli.Execute()
}
