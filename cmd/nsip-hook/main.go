package main

import "github.com/zircote/nsip-plugin/internal/cli"

func main() {
	cli.Execute()
}
