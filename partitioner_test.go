package eventhub

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSelectPartitionIsDeterministic(t *testing.T) {
	partitions := []string{"0", "1", "2", "3"}

	first, err := DefaultSelectPartition("customer-42", partitions)
	require.NoError(t, err)

	for n := 0; n < 10; n++ {
		again, err := DefaultSelectPartition("customer-42", partitions)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDefaultSelectPartitionSpreadsKeys(t *testing.T) {
	partitions := []string{"0", "1", "2", "3"}
	seen := make(map[string]int)

	for i := 0; i < 200; i++ {
		id, err := DefaultSelectPartition(fmt.Sprintf("key-%d", i), partitions)
		require.NoError(t, err)
		require.Contains(t, partitions, id)
		seen[id]++
	}

	require.GreaterOrEqual(t, len(seen), 3, "keys should spread over partitions")
}

func TestDefaultSelectPartitionEmptyList(t *testing.T) {
	_, err := DefaultSelectPartition("key", nil)
	require.ErrorIs(t, err, ErrNoPartitions)
}
