package format

import "strings"

// ExplorerTxURL links a transaction hash on the block explorer
func ExplorerTxURL(explorerUrl, hash string) string {
	if explorerUrl == "" || hash == "" {
		return ""
	}
	return strings.TrimRight(explorerUrl, "/") + "/tx/" + hash
}

// ExplorerAddressURL links an address or token on the block explorer
func ExplorerAddressURL(explorerUrl, address string) string {
	if explorerUrl == "" || address == "" {
		return ""
	}
	return strings.TrimRight(explorerUrl, "/") + "/address/" + address
}

// ShortAddress abbreviates an address or hash as 0x1234...abcd
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
