package eventhub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jackc/puddle/v2"
)

// ProducerOptions configures a producer binding.
type ProducerOptions struct {
	// PartitionID pins the binding to a single partition. Empty means
	// partition-key routing via SelectPartition.
	PartitionID string

	// MaxLinks is the maximum number of send links the binding keeps open.
	// Default: 4.
	MaxLinks int32

	// SelectPartition resolves a partition key to a partition id.
	// If nil, DefaultSelectPartition (hash-based) is used.
	SelectPartition SelectPartitionFunc
}

// Producer is a data-plane binding: it owns a pool of send links drawn from
// the client's connection scope and resolves partitions for keyed sends. The
// message encoding layer above acquires links through WithLink.
type Producer struct {
	client          *Client
	partitionID     string
	selectPartition SelectPartitionFunc
	pool            *puddle.Pool[Link]
	closed          atomic.Bool

	mu         sync.Mutex
	partitions []string // resolved lazily from hub properties
}

// NewProducer creates a producer binding on the client's connection scope.
func (c *Client) NewProducer(opts ProducerOptions) (*Producer, error) {
	if c.IsClosed() {
		return nil, ErrClientClosed
	}

	maxLinks := opts.MaxLinks
	if maxLinks <= 0 {
		maxLinks = 4
	}

	selectPartition := opts.SelectPartition
	if selectPartition == nil {
		selectPartition = DefaultSelectPartition
	}

	pool, err := puddle.NewPool(&puddle.Config[Link]{
		Constructor: func(ctx context.Context) (Link, error) {
			return c.openLink(ctx, c.sessionTimeout)
		},
		Destructor: func(link Link) {
			_ = link.Close()
		},
		MaxSize: maxLinks,
	})
	if err != nil {
		return nil, err
	}

	return &Producer{
		client:          c,
		partitionID:     opts.PartitionID,
		selectPartition: selectPartition,
		pool:            pool,
	}, nil
}

// ResolvePartition returns the partition id an event with the given key
// belongs to. For a pinned binding this is always the pinned partition. The
// hub's partition list is fetched once and reused.
func (p *Producer) ResolvePartition(ctx context.Context, partitionKey string) (string, error) {
	if p.closed.Load() {
		return "", ErrBindingClosed
	}
	if p.partitionID != "" {
		return p.partitionID, nil
	}

	ids, err := p.partitionIDs(ctx)
	if err != nil {
		return "", err
	}
	return p.selectPartition(partitionKey, ids)
}

func (p *Producer) partitionIDs(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.partitions != nil {
		return p.partitions, nil
	}

	props, err := p.client.GetProperties(ctx, nil)
	if err != nil {
		return nil, err
	}
	p.partitions = props.PartitionIDs
	return p.partitions, nil
}

// WithLink acquires a live send link for the duration of fn. A link found
// dead on acquisition is destroyed and replaced; a link left dead by fn is
// destroyed instead of returned to the pool.
func (p *Producer) WithLink(ctx context.Context, fn func(link Link) error) error {
	if p.closed.Load() {
		return ErrBindingClosed
	}

	for {
		res, err := p.pool.Acquire(ctx)
		if err != nil {
			return err
		}

		link := res.Value()
		if !link.Alive() {
			res.Destroy()
			continue
		}

		err = fn(link)
		if !link.Alive() {
			res.Destroy()
		} else {
			res.Release()
		}
		return err
	}
}

// Close destroys the binding's send links. Idempotent.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.pool.Close()
	return nil
}
