package contracts

import (
	"fmt"
	"sort"
)

// Kind identifies a deployable minter contract
type Kind string

const (
	BatchMinter         Kind = "batch-minter"
	BatchMinter721      Kind = "batch-minter-721"
	PublicMinter        Kind = "public-minter"
	PublicMinterMinimal Kind = "public-minter-minimal"
	MinterControlled    Kind = "minter-controlled"
)

var artifactNames = map[Kind]string{
	BatchMinter:         "LaosBatchMinter",
	BatchMinter721:      "LaosBatchMinter721",
	PublicMinter:        "LaosPublicMinter",
	PublicMinterMinimal: "LaosPublicMinterMinimal",
	MinterControlled:    "LAOSMinterControlled",
}

// ArtifactName returns the solidity contract name of the kind
func (k Kind) ArtifactName() string {
	return artifactNames[k]
}

// IsBatchMinter reports whether the kind exposes the batch minter interface
func (k Kind) IsBatchMinter() bool {
	return k == BatchMinter || k == BatchMinter721
}

// IsPublicMinter reports whether the kind exposes the public minter interface
func (k Kind) IsPublicMinter() bool {
	return k == PublicMinter || k == PublicMinterMinimal
}

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := artifactNames[k]; !ok {
		return "", fmt.Errorf("unknown contract %q, expected one of %v", s, Kinds())
	}

	return k, nil
}

// Kinds returns all known kinds in a stable order
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(artifactNames))
	for k := range artifactNames {
		kinds = append(kinds, k)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}
