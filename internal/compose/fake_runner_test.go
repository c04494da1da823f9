package compose

import (
	"context"
)

type invocation struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []invocation
	err   error
	out   []byte
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	f.calls = append(f.calls, invocation{dir: dir, name: name, args: args})
	return f.err
}

func (f *fakeRunner) RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	return f.Run(ctx, dir, name, args...)
}

func (f *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, invocation{dir: dir, name: name, args: args})
	return f.out, f.err
}

func (f *fakeRunner) last() invocation {
	if len(f.calls) == 0 {
		return invocation{}
	}
	return f.calls[len(f.calls)-1]
}
