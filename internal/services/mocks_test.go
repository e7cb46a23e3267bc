package services

import (
	"context"
	"encoding/json"
	"net/url"
)

type fakeAPI struct {
	GetFunc     func(ctx context.Context, path string, query url.Values, out any) error
	PostFunc    func(ctx context.Context, path string, body, out any) error
	PutFunc     func(ctx context.Context, path string, body, out any) error
	GetListFunc func(ctx context.Context, path string, query url.Values, out any, envelopes ...string) error
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values, out any) error {
	return f.GetFunc(ctx, path, query, out)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body, out any) error {
	return f.PostFunc(ctx, path, body, out)
}

func (f *fakeAPI) Put(ctx context.Context, path string, body, out any) error {
	return f.PutFunc(ctx, path, body, out)
}

func (f *fakeAPI) GetList(ctx context.Context, path string, query url.Values, out any, envelopes ...string) error {
	return f.GetListFunc(ctx, path, query, out, envelopes...)
}

// respond decodes a JSON literal into out, standing in for a response body.
func respond(out any, body string) error {
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

// bodyJSON re-encodes a request body to a generic map for assertions.
func bodyJSON(body any) map[string]interface{} {
	data, _ := json.Marshal(body)
	var m map[string]interface{}
	_ = json.Unmarshal(data, &m)
	return m
}
