// Package executor provides the remote execution channel to the appliance.
//
// Everything the tool does on the appliance goes through the Executor
// interface: one-shot command execution and file upload. The production
// implementation (SSHExecutor) speaks SSH and SFTP; tests substitute
// MockExecutor to script remote behavior without a network.
package executor

import "context"

// Executor is the administrative channel to one appliance.
// Every Run call is an independent remote command execution, not a
// persistent interactive session.
type Executor interface {
	// Run executes a command on the appliance and returns combined output.
	Run(ctx context.Context, command string) ([]byte, error)

	// Upload copies a local file to the appliance under remoteName.
	Upload(ctx context.Context, localPath, remoteName string) error

	// Close releases the underlying connection.
	Close() error
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	RunFunc    func(ctx context.Context, command string) ([]byte, error)
	UploadFunc func(ctx context.Context, localPath, remoteName string) error
	CloseFunc  func() error

	// Call tracking for verification
	RunCalls    []string
	UploadCalls []UploadCall
	CloseCalls  int
}

// UploadCall records an upload for verification
type UploadCall struct {
	LocalPath  string
	RemoteName string
}

// Run records the command and calls the mock function
func (m *MockExecutor) Run(ctx context.Context, command string) ([]byte, error) {
	m.RunCalls = append(m.RunCalls, command)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, command)
	}
	return []byte(""), nil
}

// Upload records the transfer and calls the mock function
func (m *MockExecutor) Upload(ctx context.Context, localPath, remoteName string) error {
	m.UploadCalls = append(m.UploadCalls, UploadCall{LocalPath: localPath, RemoteName: remoteName})
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, localPath, remoteName)
	}
	return nil
}

// Close calls the mock function
func (m *MockExecutor) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
