package faucet

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI describes the deployed faucet contract.
var ABI abi.ABI

const faucetABIJSON = `[
	{"inputs":[{"internalType":"address","name":"_requestor","type":"address"}],"name":"requestTokens","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"_amount","type":"uint256"}],"name":"swapToken","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[],"name":"contractTokenBalance","outputs":[{"internalType":"uint256","name":"_celoBalance","type":"uint256"},{"internalType":"uint256","name":"_cUSDBalance","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

func init() {
	parsed, err := abi.JSON(strings.NewReader(faucetABIJSON))
	if err != nil {
		panic(err)
	}
	ABI = parsed
}
