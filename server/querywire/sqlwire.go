package querywire

import (
	"errors"

	"github.com/tuannm99/novaquery/internal/sql/executor"
)

// ExecuteRequest is one statement sent by a client. ID is chosen by the
// client and only has to be unique per connection.
type ExecuteRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// ExecuteResponse echoes the request ID. Error carries the parse or
// execution failure text as produced by the executor; when it is empty
// Result is non-nil.
type ExecuteResponse struct {
	ID     uint64           `json:"id"`
	Result *executor.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// NewExecuteResponse builds the reply to request id from the outcome of
// running it. A nil res on success becomes an empty Result.
func NewExecuteResponse(id uint64, res *executor.Result, err error) ExecuteResponse {
	if err != nil {
		return ExecuteResponse{ID: id, Error: err.Error()}
	}
	if res == nil {
		res = &executor.Result{}
	}
	return ExecuteResponse{ID: id, Result: res}
}

// Outcome turns a decoded response back into the (result, error) pair the
// server saw.
func (r ExecuteResponse) Outcome() (*executor.Result, error) {
	if r.Error != "" {
		return nil, errors.New(r.Error)
	}
	if r.Result == nil {
		return &executor.Result{}, nil
	}
	return r.Result, nil
}
