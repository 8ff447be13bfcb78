package common

// Network selects the chain the indexer follows.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkMainnet: {},
	NetworkTestnet: {},
}

// defaultStartHeights are the first heights worth scanning for envelopes on
// each chain.
var defaultStartHeights = map[Network]uint64{
	NetworkMainnet: 3132356,
	NetworkTestnet: 2976000,
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

func (n Network) DefaultStartHeight() uint64 {
	return defaultStartHeights[n]
}

func (n Network) String() string {
	return string(n)
}
