package main

import "github.com/MimeLyc/subtitle-batch-translator/internal/cli"

func main() {
	cli.Main()
}
