package eventhub

import "github.com/zeebo/xxh3"

// SelectPartitionFunc picks the partition id for a partition key.
type SelectPartitionFunc func(partitionKey string, partitionIDs []string) (string, error)

// DefaultSelectPartition hashes the partition key and maps it onto the
// partition list. Events sharing a key always resolve to the same partition
// for a given partition count.
func DefaultSelectPartition(partitionKey string, partitionIDs []string) (string, error) {
	if len(partitionIDs) == 0 {
		return "", ErrNoPartitions
	}
	h := xxh3.HashString(partitionKey)
	return partitionIDs[h%uint64(len(partitionIDs))], nil
}
