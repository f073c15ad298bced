package contracts

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// LockerABI is shared by the token locker and the liquidity locker
const LockerABI = `[
	{"type":"function","name":"locksOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"locks","stateMutability":"view",
	 "inputs":[{"name":"","type":"uint256"}],
	 "outputs":[
		{"name":"lpToken","type":"address"},
		{"name":"amount","type":"uint256"},
		{"name":"withdrawn","type":"uint256"},
		{"name":"unlockDate","type":"uint256"},
		{"name":"owner","type":"address"}]},
	{"type":"function","name":"withdrawable","stateMutability":"view",
	 "inputs":[{"name":"lockId","type":"uint256"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable",
	 "inputs":[{"name":"lockId","type":"uint256"}],
	 "outputs":[]}
]`

const VestingFactoryABI = `[
	{"type":"function","name":"getUserSchedules","stateMutability":"view",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"schedules","stateMutability":"view",
	 "inputs":[{"name":"","type":"uint256"}],
	 "outputs":[
		{"name":"token","type":"address"},
		{"name":"beneficiary","type":"address"},
		{"name":"totalAmount","type":"uint256"},
		{"name":"released","type":"uint256"},
		{"name":"start","type":"uint256"},
		{"name":"cliffMonths","type":"uint256"},
		{"name":"durationMonths","type":"uint256"},
		{"name":"mode","type":"uint8"},
		{"name":"isActive","type":"bool"}]},
	{"type":"function","name":"claim","stateMutability":"nonpayable",
	 "inputs":[{"name":"scheduleId","type":"uint256"}],
	 "outputs":[]}
]`

const ERC20ABI = `[
	{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

// MultiSenderABI must match the deployed multi sender contract. Check the
// signature against MULTI_SENDER_ADDRESS on the explorer before running
// cmd/multisend.
const MultiSenderABI = `[
	{"type":"function","name":"multisendToken","stateMutability":"payable",
	 "inputs":[
		{"name":"token","type":"address"},
		{"name":"recipients","type":"address[]"},
		{"name":"amounts","type":"uint256[]"}],
	 "outputs":[]}
]`

var (
	Locker         = mustParseABI("locker", LockerABI)
	VestingFactory = mustParseABI("vesting factory", VestingFactoryABI)
	ERC20          = mustParseABI("erc20", ERC20ABI)
	MultiSender    = mustParseABI("multi sender", MultiSenderABI)
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid %s ABI: %v", name, err))
	}
	return parsed
}
