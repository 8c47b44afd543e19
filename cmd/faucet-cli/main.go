package main

import "github.com/kalondepeace/Celo-Faucet/cmd/faucet-cli/cmd"

func main() {
	cmd.Execute()
}
