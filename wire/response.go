package wire

import "time"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Service error codes carried by error responses.
const (
	CodeBadRequest    = "bad-request"
	CodeUnauthorized  = "unauthorized"
	CodeNotFound      = "not-found"
	CodeServerBusy    = "server-busy"
	CodeInternalError = "internal-error"
	CodeTimeout       = "timeout"
)

// HubInfo is the hub-properties payload of a successful response.
type HubInfo struct {
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	PartitionIDs []string  `json:"partition_ids"`
}

// PartitionInfo is the partition-properties payload of a successful response.
type PartitionInfo struct {
	HubName                 string    `json:"hub_name"`
	PartitionID             string    `json:"partition_id"`
	BeginningSequenceNumber int64     `json:"beginning_sequence_number"`
	LastSequenceNumber      int64     `json:"last_sequence_number"`
	LastOffset              string    `json:"last_offset"`
	LastEnqueuedAt          time.Time `json:"last_enqueued_at"`
	IsEmpty                 bool      `json:"is_empty"`
}

// Response is the body of a management response frame. Exactly one of Hub and
// Partition is set on a successful response, matching the request operation.
type Response struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Code      string         `json:"code,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	Hub       *HubInfo       `json:"hub,omitempty"`
	Partition *PartitionInfo `json:"partition,omitempty"`
}

// Err returns the protocol error encoded by the response, or nil for a
// successful response.
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	return &ProtocolError{Code: r.Code, Detail: r.Detail}
}

// NewErrorResponse builds an error response for the given request ID.
func NewErrorResponse(id, code, detail string) *Response {
	return &Response{ID: id, Status: StatusError, Code: code, Detail: detail}
}

// ProtocolError is a failure explicitly reported by the service in a response
// frame.
type ProtocolError struct {
	Code   string
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Detail == "" {
		return "wire: service error " + e.Code
	}
	return "wire: service error " + e.Code + ": " + e.Detail
}

// Temporary reports whether the service error is worth retrying.
func (e *ProtocolError) Temporary() bool {
	switch e.Code {
	case CodeServerBusy, CodeInternalError, CodeTimeout:
		return true
	}
	return false
}
