// Package main provides the quarry TCP server: a newline-delimited
// JSON protocol over which clients send SQL command strings and receive
// result sets or structured errors.
package main

import "encoding/json"

// Request is the JSON request form. Clients may also send a bare SQL
// line; the JSON form exists for batched parameterized statements.
type Request struct {
	Query string `json:"query"`
	// Params holds one tuple of text-form parameter values per
	// execution of Query, bound to $1..$n.
	Params [][]string `json:"params,omitempty"`
}

// Response is the server's answer to one request line.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Kind    string          `json:"kind,omitempty"` // stable error kind
	Code    string          `json:"code,omitempty"` // SQLSTATE
	Type    string          `json:"type,omitempty"` // "query", "exec" or "auth"
	Result  json.RawMessage `json:"result,omitempty"`
}

// ColumnInfo describes one output column of a query response.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryResponse carries a result set. NULL cells are JSON null.
type QueryResponse struct {
	Columns []ColumnInfo `json:"columns"`
	Rows    [][]*string  `json:"rows"`
}

// ExecResponse carries the outcome of DDL and mutations.
type ExecResponse struct {
	Tag          string `json:"tag"`
	RowsAffected int    `json:"rows_affected"`
}

// AuthResponse carries the outcome of an AUTH command.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Identity      string `json:"identity,omitempty"`
	ExpiresIn     int    `json:"expires_in,omitempty"`
}

// EncodeResponse serializes a Response to JSON with a trailing newline.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeRequest parses a JSON request line.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	err := json.Unmarshal(data, &req)
	return req, err
}
