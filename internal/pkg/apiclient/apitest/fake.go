// Package apitest provides an in-memory apiclient.Requester for tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call is one recorded request
type Call struct {
	Method string
	Path   string
	Body   json.RawMessage
}

type reply struct {
	body string
	err  error
}

// Fake answers requests from canned replies keyed by "METHOD path".
// Unknown routes return an error so tests notice unexpected calls.
type Fake struct {
	mu      sync.Mutex
	replies map[string][]reply
	calls   []Call
}

// New creates an empty fake
func New() *Fake {
	return &Fake{replies: make(map[string][]reply)}
}

// On queues a JSON reply for method and path. The last reply is sticky.
func (f *Fake) On(method, path, body string) *Fake {
	return f.push(method, path, reply{body: body})
}

// Fail queues an error for method and path
func (f *Fake) Fail(method, path string, err error) *Fake {
	return f.push(method, path, reply{err: err})
}

func (f *Fake) push(method, path string, r reply) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.replies[key] = append(f.replies[key], r)
	return f
}

// Calls returns the recorded requests in order
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Last returns the most recent request for method and path
func (f *Fake) Last(method, path string) (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i], true
		}
	}
	return Call{}, false
}

// Count returns how many times method and path were requested
func (f *Fake) Count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *Fake) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return f.do(ctx, "GET", path, nil)
}

func (f *Fake) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return f.do(ctx, "POST", path, body)
}

func (f *Fake) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return f.do(ctx, "PUT", path, body)
}

func (f *Fake) Patch(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return f.do(ctx, "PATCH", path, body)
}

func (f *Fake) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return f.do(ctx, "DELETE", path, nil)
}

func (f *Fake) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload json.RawMessage
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: payload})

	key := method + " " + path
	queue := f.replies[key]
	if len(queue) == 0 {
		return nil, fmt.Errorf("apitest: no reply for %s", key)
	}
	r := queue[0]
	if len(queue) > 1 {
		f.replies[key] = queue[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.body == "" {
		return nil, nil
	}
	return json.RawMessage(r.body), nil
}
