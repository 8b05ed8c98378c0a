package main

import "github.com/playrank/nft-roi-indexer/internal/cli"

func main() {
	cli.Execute()
}
