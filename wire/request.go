package wire

// Operation identifies a management operation carried by a request frame.
type Operation string

const (
	OpHubProperties       Operation = "hub-properties"
	OpPartitionProperties Operation = "partition-properties"
)

// Request is the body of a management request frame.
type Request struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Hub       string    `json:"hub"`
	Partition string    `json:"partition,omitempty"`
	Token     string    `json:"token"`
}

// NewHubPropertiesRequest builds a request for hub-level properties.
func NewHubPropertiesRequest(id, hub, token string) *Request {
	return &Request{
		ID:        id,
		Operation: OpHubProperties,
		Hub:       hub,
		Token:     token,
	}
}

// NewPartitionPropertiesRequest builds a request for the properties of a
// single partition.
func NewPartitionPropertiesRequest(id, hub, partition, token string) *Request {
	return &Request{
		ID:        id,
		Operation: OpPartitionProperties,
		Hub:       hub,
		Partition: partition,
		Token:     token,
	}
}
