package main

import "github.com/djasnowski/myrefell-sub008/internal/cli"

func main() {
	cli.Execute()
}
