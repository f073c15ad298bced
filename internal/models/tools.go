package models

// Tool names, used in routes, logs and snapshot keys
const (
	ToolTokenLocker     = "token-locker"
	ToolLiquidityLocker = "liquidity-locker"
	ToolVesting         = "vesting"
	ToolMultisend       = "multi-send"
)

// ComingSoon reports whether tool is gated. Gated tools perform no reads
// and accept no writes.
func (f FeatureConfig) ComingSoon(tool string) bool {
	switch tool {
	case ToolTokenLocker:
		return f.TokenLockerComingSoon
	case ToolLiquidityLocker:
		return f.LiquidityLockerComingSoon
	case ToolVesting:
		return f.VestingComingSoon
	}
	return false
}
