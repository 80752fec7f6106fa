/*
Package server implements msgpack IPC for grid word search.

The server reads a stream of msgpack encoded requests from stdin and writes
one msgpack response per request to stdout. Logs go to stderr so they never
interleave with the stream.

# IPC

Every request carries an ID echoed in the response and an action.
A grid is loaded first:

	{"id": "req_001", "action": "load", "rows": ["cats", "dogs", "rats", "mice"]}

and answered with its dimensions:

	{"id": "req_001", "status": "ok", "r": 4, "c": 4}

Find requests send candidate words and an optional result count:

	{"id": "req_002", "action": "find", "w": ["cat", "dog", "fox"], "k": 10}

The server responds with matches ranked by weight, ties in first seen order:

	{"id": "req_002", "m": [{"w": "cat", "wt": 1}, {"w": "dog", "wt": 1}], "c": 2, "t": 41}

where t is the search time in microseconds. The stats and health actions
need no other fields.

# Errors

Failures are reported as ErrorResponse with a numeric code:
400 for a bad request, 409 for a find before any load and 500 when the
engine failed. Input that does not decode as a request is answered with 400
and ends the session, since the stream cannot be resynchronized.
*/
package server

// Request - every client message; unused fields stay empty.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action"`
	Rows   []string `msgpack:"rows,omitempty"` // for "load"
	Words  []string `msgpack:"w,omitempty"`    // for "find"
	K      int      `msgpack:"k,omitempty"`    // for "find"
}

// StatusResponse answers load and health; R and C are the grid size after a load.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Rows   int    `msgpack:"r,omitempty"`
	Cols   int    `msgpack:"c,omitempty"`
}

// MatchEntry - one ranked word
type MatchEntry struct {
	Word   string `msgpack:"w"`
	Weight int    `msgpack:"wt"`
}

// FindResponse - find response
type FindResponse struct {
	ID        string       `msgpack:"id"`
	Matches   []MatchEntry `msgpack:"m"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// StatsResponse - engine and server counters
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ErrorResponse holds basic error information for any failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}

// Error codes
const (
	CodeBadRequest = 400
	CodeNoGrid     = 409
	CodeInternal   = 500
)
