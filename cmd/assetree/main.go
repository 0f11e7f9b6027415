package main

import "github.com/dgallion1/assetree/internal/cli"

func main() {
	cli.Execute()
}
