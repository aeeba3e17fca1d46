package common

type Network string

const (
	NetworkBSCMainnet  Network = "bsc-mainnet"
	NetworkBSCTestnet  Network = "bsc-testnet"
	NetworkMaxiMainnet Network = "maxi-mainnet"
	NetworkMaxiTestnet Network = "maxi-testnet"
)

var supportedNetworks = map[Network]struct{}{
	NetworkBSCMainnet:  {},
	NetworkBSCTestnet:  {},
	NetworkMaxiMainnet: {},
	NetworkMaxiTestnet: {},
}

var chainIds = map[Network]int64{
	NetworkBSCMainnet:  56,
	NetworkBSCTestnet:  97,
	NetworkMaxiMainnet: 899,
	NetworkMaxiTestnet: 898,
}

func (n Network) IsSupported() bool {
	_, ok := supportedNetworks[n]
	return ok
}

func (n Network) ChainId() int64 {
	return chainIds[n]
}

func (n Network) String() string {
	return string(n)
}
