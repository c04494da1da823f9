// Where: internal/app/fakes_test.go
// What: Shared fakes for command handler tests.
package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tracekit-dev/agentbox/internal/config"
	"github.com/tracekit-dev/agentbox/internal/interaction"
	"github.com/tracekit-dev/agentbox/internal/runtime"
	"github.com/tracekit-dev/agentbox/internal/traces"
)

type invocation struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls []invocation
	err   error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	f.calls = append(f.calls, invocation{dir: dir, name: name, args: args})
	return f.err
}

func (f *fakeRunner) RunQuiet(ctx context.Context, dir, name string, args ...string) error {
	return f.Run(ctx, dir, name, args...)
}

func (f *fakeRunner) RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return nil, f.Run(ctx, dir, name, args...)
}

type fakeContainers struct {
	requests []runtime.RunRequest
	exitCode int
	err      error
}

func (f *fakeContainers) Run(_ context.Context, req runtime.RunRequest) (int, error) {
	f.requests = append(f.requests, req)
	return f.exitCode, f.err
}

type fakePrompter struct {
	choice    string
	preselect string
	err       error
	called    int
}

func (f *fakePrompter) SelectValue(_ string, _ []interaction.SelectOption, preselect string) (string, error) {
	f.called++
	f.preselect = preselect
	if f.err != nil {
		return "", f.err
	}
	return f.choice, nil
}

type fakeWaiter struct {
	waited []config.ServiceConfig
	err    error
}

func (f *fakeWaiter) Wait(_ context.Context, svc config.ServiceConfig) error {
	f.waited = append(f.waited, svc)
	return f.err
}

type fakeObjectStore struct {
	keys []string
	err  error
}

func (f *fakeObjectStore) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, *params.Key)
	return &s3.PutObjectOutput{}, nil
}

func storeFactory(store traces.ObjectStore) ObjectStoreFactory {
	return func(context.Context, string) (traces.ObjectStore, error) {
		return store, nil
	}
}

// writeCredentialsFixture writes a populated .env into dir.
func writeCredentialsFixture(t *testing.T, dir string) {
	t.Helper()
	content := "AZURE_OPENAI_ENDPOINT=https://demo.openai.azure.com/\n" +
		"AZURE_OPENAI_API_KEY=sk-test-1234\n" +
		"AZURE_OPENAI_DEPLOYMENT=gpt-4o\n"
	if err := os.WriteFile(filepath.Join(dir, config.CredentialsFile), []byte(content), 0o600); err != nil {
		t.Fatalf("write credentials fixture: %v", err)
	}
}

// writeComposeFixture writes the default compose files into dir.
func writeComposeFixture(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"docker-compose.jaeger.yml": "services:\n  jaeger:\n    image: jaegertracing/all-in-one\n",
		"docker-compose.otel.yml":   "services:\n  otel-collector:\n    image: otel/opentelemetry-collector-contrib\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write compose fixture: %v", err)
		}
	}
}
