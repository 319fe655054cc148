package nft

// Get-method names.
const (
	MethodGetNFTAddressByIndex = "get_nft_address_by_index"
	MethodGetCollectionData    = "get_collection_data"
	MethodRoyaltyParams        = "royalty_params"
	MethodGetNFTData           = "get_nft_data"
)

// Collection message opcodes.
const (
	OpMint          uint64 = 1
	OpBatchMint     uint64 = 2
	OpChangeOwner   uint64 = 3
	OpChangeContent uint64 = 4

	// OpChangePrice shares its opcode with OpChangeContent; the sale
	// extension of the collection contract tells them apart by body layout.
	OpChangePrice uint64 = 4
)

// Item message opcodes.
const (
	OpTransfer uint64 = 0x5fcc3d14
)

// Content layout tags.
const (
	ContentOnChain  uint64 = 0x00
	ContentOffChain uint64 = 0x01
)
