package command

// Persistent flags shared by every subcommand
const (
	ConfigFlag     = "config"
	NetworkFlag    = "network"
	JSONRPCFlag    = "json-rpc"
	LogLevelFlag   = "log-level"
	JSONOutputFlag = "json"
)

// Flags shared by several subcommands
const (
	OwnerFlag     = "owner"
	ContractFlag  = "contract"
	AddressFlag   = "address"
	TxTimeoutFlag = "tx-timeout"

	OwnerFlagDesc     = "the owner address, defaults to the deployer account"
	TxTimeoutFlagDesc = "timeout for receipts in case of transaction sending, overrides the config file"
)
