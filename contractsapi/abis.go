package contractsapi

import (
	"github.com/Ethernal-Tech/ethgo/abi"
)

const (
	eventMintedWithExternalURI  = "MintedWithExternalURI"
	eventEvolvedWithExternalURI = "EvolvedWithExternalURI"
	eventNewCollection          = "NewCollection"
	eventOwnershipTransferred   = "OwnershipTransferred"
)

var (
	collectionEvents = []string{
		"event MintedWithExternalURI(address indexed _to, uint96 _slot, uint256 _tokenId, string _tokenURI)",
		"event EvolvedWithExternalURI(uint256 indexed _tokenId, string _tokenURI)",
		"event OwnershipTransferred(address indexed previousOwner, address indexed newOwner)",
	}

	mintingFunctions = []string{
		"function owner() view returns (address)",
		"function mintWithExternalURI(address _to, uint96 _slot, string _tokenURI) returns (uint256)",
		"function evolveWithExternalURI(uint256 _tokenId, string _tokenURI) returns (uint256)",
		"function transferOwnership(address _newOwner)",
	}

	// EvolutionCollectionABI is the interface of a precompile-managed collection
	EvolutionCollectionABI = mustNewABI(concat(mintingFunctions, collectionEvents, []string{
		"function tokenURI(uint256 _tokenId) view returns (string)",
	}))

	// EvolutionCollectionFactoryABI is the interface of the collection factory precompile
	EvolutionCollectionFactoryABI = mustNewABI([]string{
		"function createCollection(address _owner) returns (address)",
		"event NewCollection(address indexed _owner, address _collectionAddress)",
	})

	// BatchMinterABI is the interface of LaosBatchMinter and LaosBatchMinter721
	BatchMinterABI = mustNewABI(concat(mintingFunctions, collectionEvents, []string{
		"function batchMinterOwner() view returns (address)",
		"function precompileAddress() view returns (address)",
		"function setPrecompileAddress(address _newAddress)",
		"function mintWithExternalURIBatch(address[] _to, uint96[] _slot, string[] _tokenURI)",
		"function evolveWithExternalURIBatch(uint256[] _tokenId, string[] _tokenURI)",
		"function transferBatchMinterOwnership(address _newOwner)",
		"function mintTo(address _to, string _tokenURI)",
		"function transferFrom(address _from, address _to, uint256 _tokenId)",
	}))

	// PublicMinterABI is the interface of LaosPublicMinter and LaosPublicMinterMinimal
	PublicMinterABI = mustNewABI(concat(mintingFunctions, collectionEvents, []string{
		"function publicMinterOwner() view returns (address)",
		"function precompileAddress() view returns (address)",
		"function setPrecompileAddress(address _newAddress)",
		"function enablePublicMinting()",
		"function disablePublicMinting()",
		"function isPublicMintingEnabled() view returns (bool)",
		"function transferPublicMinterOwnership(address _newOwner)",
	}))

	// MinterControlledABI is the interface of LAOSMinterControlled
	MinterControlledABI = mustNewABI(concat(mintingFunctions, collectionEvents, []string{
		"function precompileAddress() view returns (address)",
		"function MINTER_ROLE() view returns (bytes32)",
		"function DEFAULT_ADMIN_ROLE() view returns (bytes32)",
		"function hasRole(bytes32 _role, address _account) view returns (bool)",
		"function grantRole(bytes32 _role, address _account)",
		"function revokeRole(bytes32 _role, address _account)",
	}))

	// ownerConstructorType encodes the constructor arguments shared by all minters
	ownerConstructorType = abi.MustNewType("tuple(address _owner)")
)

func concat(lists ...[]string) []string {
	var res []string
	for _, l := range lists {
		res = append(res, l...)
	}

	return res
}
