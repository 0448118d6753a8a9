package upload

import (
	"context"
	"fmt"
	"sync"

	"github.com/railgraph/railgraph/pkg/transports/ssh"
)

// Pool lazily connects and caches one *ssh.SSHClient per remote host
// address, so many upload stations targeting the same host share a single
// connection. Pool's fields are both reference types, so copying a Pool
// value (as resources.Insert does) shares the same underlying clients and
// lock; this lets Pool itself, rather than a pointer to it, live in the
// resource map alongside stores.SQLiteStore's equivalent value convention.
type Pool struct {
	mu      *sync.Mutex
	clients map[string]*ssh.SSHClient
}

// NewPool returns an empty Pool ready for concurrent use.
func NewPool() Pool {
	return Pool{mu: &sync.Mutex{}, clients: make(map[string]*ssh.SSHClient)}
}

// Client returns the connected SSH client for cfg's host address, dialing
// and caching a new one on first use.
func (p Pool) Client(ctx context.Context, cfg *ssh.Config) (*ssh.SSHClient, error) {
	addr := cfg.Address()

	p.mu.Lock()
	if client, ok := p.clients[addr]; ok {
		p.mu.Unlock()
		return client, nil
	}
	p.mu.Unlock()

	client, err := ssh.NewSSHClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("upload: build ssh client for %s: %w", addr, err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("upload: connect to %s: %w", addr, err)
	}

	p.mu.Lock()
	if existing, ok := p.clients[addr]; ok {
		p.mu.Unlock()
		_ = client.Disconnect()
		return existing, nil
	}
	p.clients[addr] = client
	p.mu.Unlock()

	return client, nil
}

// CloseAll disconnects every pooled client. Intended for use at the end of
// a run, not from station logic itself.
func (p Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, client := range p.clients {
		_ = client.Disconnect()
	}
}
