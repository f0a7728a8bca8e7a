package contracts

import (
	"bytes"
	"encoding/binary"

	"github.com/Ethernal-Tech/ethgo"
)

var (
	// EvolutionCollectionFactoryPrecompile is the address of the precompile that creates collections
	EvolutionCollectionFactoryPrecompile = ethgo.HexToAddress("0x0000000000000000000000000000000000000403")

	// collectionAddressPrefix is shared by the addresses of all precompile-managed collections
	collectionAddressPrefix = []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	}
)

// CollectionAddress returns the precompile address of the collection with the given id
func CollectionAddress(id uint64) ethgo.Address {
	var addr ethgo.Address

	copy(addr[:], collectionAddressPrefix)
	binary.BigEndian.PutUint64(addr[len(collectionAddressPrefix):], id)

	return addr
}

// IsCollectionAddress reports whether addr belongs to a precompile-managed collection
func IsCollectionAddress(addr ethgo.Address) bool {
	return bytes.HasPrefix(addr[:], collectionAddressPrefix)
}

// CollectionID returns the id of a precompile-managed collection
func CollectionID(addr ethgo.Address) (uint64, bool) {
	if !IsCollectionAddress(addr) {
		return 0, false
	}

	return binary.BigEndian.Uint64(addr[len(collectionAddressPrefix):]), true
}
