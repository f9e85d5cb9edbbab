package eventhub

import (
	"strings"
	"time"
)

const defaultPort = "5671"

// AccessToken is an authorization token with its expiry. A token with an
// empty string value is treated as absent regardless of ExpiresOn.
type AccessToken struct {
	Token     string
	ExpiresOn time.Time
}

// Endpoint identifies the broker resource a client talks to. It is derived
// once at construction and immutable for the lifetime of the client.
type Endpoint struct {
	Host   string // broker address, port optional
	Hub    string // hub (resource) name
	Scheme string
}

// Addr returns the dialable network address, applying the default port when
// the host does not carry one.
func (e Endpoint) Addr() string {
	if strings.ContainsRune(e.Host, ':') {
		return e.Host
	}
	return e.Host + ":" + defaultPort
}

// Scope returns the authorization scope for tokens used against this
// endpoint.
func (e Endpoint) Scope() string {
	return e.Scheme + "://" + e.Host + "/" + e.Hub
}

// HubProperties describes a hub: its name, creation time and partitions.
type HubProperties struct {
	Name         string
	CreatedAt    time.Time
	PartitionIDs []string
}

// PartitionProperties describes the current state of a single partition.
type PartitionProperties struct {
	HubName                 string
	PartitionID             string
	BeginningSequenceNumber int64
	LastSequenceNumber      int64
	LastOffset              string
	LastEnqueuedAt          time.Time
	IsEmpty                 bool
}
