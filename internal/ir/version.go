package ir

// Version constants for the state layout and the contract.
const (
	// SchemaVersion is the persisted state layout version, stamped into
	// SQLite's user_version.
	//
	// 1 - state cell + messages keyed by big-endian id
	SchemaVersion = 1

	// ContractVersion is the msgboard contract version.
	ContractVersion = "0.1.0"

	// ContractName identifies the contract in logs and the CLI.
	ContractName = "msgboard"
)
