package main

import "github.com/ogurasousui/acid-suite/internal/cli"

func main() {
	cli.Execute()
}
