package deployments

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/Ethernal-Tech/ethgo"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

// DBFileName is the name of the registry file inside the data directory
const DBFileName = "deployments.db"

var (
	// ErrNotFound is returned when no deployment matches a query
	ErrNotFound = errors.New("deployment not found")

	// deploymentsBucket holds one nested bucket per chain id
	deploymentsBucket = []byte("Deployments")

	openTimeout = time.Second
)

// Record is a contract deployed by minterctl
type Record struct {
	ID          string        `json:"id"`
	ChainID     uint64        `json:"chainId"`
	Name        string        `json:"name"`
	Contract    string        `json:"contract"`
	Address     ethgo.Address `json:"address"`
	Owner       ethgo.Address `json:"owner"`
	Deployer    ethgo.Address `json:"deployer"`
	Precompile  ethgo.Address `json:"precompile"`
	TxHash      ethgo.Hash    `json:"txHash"`
	BlockNumber uint64        `json:"blockNumber"`
	GasUsed     uint64        `json:"gasUsed"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Store persists deployment records in bolt
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) the registry in dataDir
func NewStore(dataDir string) (*Store, error) {
	db, err := bolt.Open(filepath.Join(dataDir, DBFileName), 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open deployments registry: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(deploymentsBucket); err != nil {
			return fmt.Errorf("cannot create bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Store{db: db}, nil
}

// Insert stores a copy of the record, with its id and creation time assigned when unset,
// and returns the copy. The passed record is left untouched.
func (s *Store) Insert(record *Record, dbTx *bolt.Tx) (*Record, error) {
	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}

	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	raw, err := jsoniter.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	insertFn := func(tx *bolt.Tx) error {
		bucket, err := tx.Bucket(deploymentsBucket).CreateBucketIfNotExists(chainKey(stored.ChainID))
		if err != nil {
			return fmt.Errorf("cannot create bucket for chain %d: %w", stored.ChainID, err)
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		return bucket.Put(encodeUint64ToBytes(seq), raw)
	}

	if dbTx == nil {
		err = s.db.Update(insertFn)
	} else {
		err = insertFn(dbTx)
	}

	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// List returns the records of a chain in insertion order
func (s *Store) List(chainID uint64) ([]*Record, error) {
	var records []*Record

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deploymentsBucket).Bucket(chainKey(chainID))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, v []byte) error {
			var record Record
			if err := jsoniter.Unmarshal(v, &record); err != nil {
				return err
			}

			records = append(records, &record)

			return nil
		})
	})

	return records, err
}

// Latest returns the most recent deployment of contract on the chain
func (s *Store) Latest(chainID uint64, contract string) (*Record, error) {
	var record *Record

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(deploymentsBucket).Bucket(chainKey(chainID))
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var candidate Record
			if err := jsoniter.Unmarshal(v, &candidate); err != nil {
				return err
			}

			if candidate.Contract == contract {
				record = &candidate

				return nil
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, fmt.Errorf("%w: %s on chain %d", ErrNotFound, contract, chainID)
	}

	return record, nil
}

// Chains returns the chain ids with at least one record
func (s *Store) Chains() ([]uint64, error) {
	var chains []uint64

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(deploymentsBucket).ForEachBucket(func(k []byte) error {
			id, err := strconv.ParseUint(string(k), 10, 64)
			if err != nil {
				return err
			}

			chains = append(chains, id)

			return nil
		})
	})

	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })

	return chains, err
}

// BeginDBTransaction begins a transaction that must be committed or rolled back by the caller
func (s *Store) BeginDBTransaction(isWriteTx bool) (*bolt.Tx, error) {
	return s.db.Begin(isWriteTx)
}

// Close closes the registry
func (s *Store) Close() error {
	return s.db.Close()
}

func chainKey(chainID uint64) []byte {
	return []byte(strconv.FormatUint(chainID, 10))
}

func encodeUint64ToBytes(value uint64) []byte {
	result := make([]byte, 8)
	binary.BigEndian.PutUint64(result, value)

	return result
}
