package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Contract interfaces, fixed by the deployed bytecode. The market contract
// exposes a public counter, a markets getter, and the three state-changing
// entry points; the staking token is a standard ERC-20 approve surface.

const marketABIJSON = `[
  {"name":"marketCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"markets","type":"function","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[
    {"name":"question","type":"string"},
    {"name":"expiry","type":"uint256"},
    {"name":"totalYes","type":"uint256"},
    {"name":"totalNo","type":"uint256"},
    {"name":"resolved","type":"bool"},
    {"name":"outcome","type":"bool"}
  ]},
  {"name":"createMarket","type":"function","stateMutability":"nonpayable","inputs":[{"name":"question","type":"string"},{"name":"expiry","type":"uint256"}],"outputs":[]},
  {"name":"placeBet","type":"function","stateMutability":"nonpayable","inputs":[{"name":"marketId","type":"uint256"},{"name":"side","type":"bool"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"name":"resolveMarket","type":"function","stateMutability":"nonpayable","inputs":[{"name":"marketId","type":"uint256"},{"name":"outcome","type":"bool"}],"outputs":[]}
]`

const erc20ABIJSON = `[
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

func mustParseABI(js string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(js))
	if err != nil {
		panic("chain: invalid embedded ABI: " + err.Error())
	}
	return parsed
}

var (
	marketABI = mustParseABI(marketABIJSON)
	erc20ABI  = mustParseABI(erc20ABIJSON)
)
