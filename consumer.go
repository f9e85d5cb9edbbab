package eventhub

import (
	"context"
	"sync/atomic"
)

// ConsumerOptions configures a consumer binding.
type ConsumerOptions struct {
	// StartingOffset is the position the data-plane layer resumes from.
	// Empty means the beginning of the partition.
	StartingOffset string

	// Epoch is the exclusive-owner level passed through to link creation.
	// Zero means a non-exclusive consumer. Epoch semantics belong to the
	// broker; the binding only carries the value.
	Epoch int64
}

// Consumer is a data-plane binding for one partition in one consumer group.
// It owns a single fault-tolerant receive link drawn from the client's
// connection scope; the stream-decoding layer above acquires it through
// WithLink.
type Consumer struct {
	client      *Client
	group       string
	partitionID string
	opts        ConsumerOptions
	link        *faultTolerantLink
	closed      atomic.Bool
}

// NewConsumer creates a consumer binding for the given consumer group and
// partition.
func (c *Client) NewConsumer(group, partitionID string, opts ConsumerOptions) (*Consumer, error) {
	if c.IsClosed() {
		return nil, ErrClientClosed
	}
	if group == "" {
		return nil, &ArgumentError{Name: "group", Reason: "must not be empty"}
	}
	if partitionID == "" {
		return nil, &ArgumentError{Name: "partitionID", Reason: "must not be empty"}
	}

	consumer := &Consumer{
		client:      c,
		group:       group,
		partitionID: partitionID,
		opts:        opts,
	}
	consumer.link = newFaultTolerantLink(c.openLink)
	return consumer, nil
}

// Group returns the consumer group of the binding.
func (c *Consumer) Group() string { return c.group }

// PartitionID returns the partition the binding reads.
func (c *Consumer) PartitionID() string { return c.partitionID }

// Epoch returns the exclusive-owner level of the binding.
func (c *Consumer) Epoch() int64 { return c.opts.Epoch }

// StartingOffset returns the configured resume position.
func (c *Consumer) StartingOffset() string { return c.opts.StartingOffset }

// WithLink acquires the binding's receive link for the duration of fn,
// recreating it first if the previous one faulted.
func (c *Consumer) WithLink(ctx context.Context, fn func(link Link) error) error {
	if c.closed.Load() {
		return ErrBindingClosed
	}

	link, err := c.link.getOrCreate(ctx, c.client.sessionTimeout)
	if err != nil {
		return err
	}
	return fn(link)
}

// Close closes the receive link. Idempotent.
func (c *Consumer) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.link.close()
}
