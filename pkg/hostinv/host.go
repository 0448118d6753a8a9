package hostinv

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/railgraph/railgraph/pkg/config"
	"github.com/railgraph/railgraph/pkg/stores"
	"github.com/railgraph/railgraph/pkg/transports/ssh"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Host represents a managed host in the inventory.
type Host struct {
	ID          string            `json:"id"`
	Address     string            `json:"address"`
	Port        int               `json:"port"`
	User        string            `json:"user"`
	KeyPath     string            `json:"key_path"`
	Labels      map[string]string `json:"labels"`
	OnboardedAt time.Time         `json:"onboarded_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SSHConfig builds the ssh.Config an upload or stationfn closure dials to
// reach h, using key-based authentication when KeyPath is set and falling
// back to agent authentication otherwise.
func (h *Host) SSHConfig() *ssh.Config {
	auth := ssh.AuthMethodAgent
	if h.KeyPath != "" {
		auth = ssh.AuthMethodKey
	}
	return &ssh.Config{
		Host:           h.Address,
		Port:           h.Port,
		User:           h.User,
		AuthMethod:     auth,
		PrivateKeyPath: h.KeyPath,
	}
}

// Registry manages the host inventory backed by a shared SQLite store.
type Registry struct {
	store stores.Store
}

// NewRegistry opens the hosts table against store, migrating it on first
// use. store is expected to already be Init'd.
func NewRegistry(ctx context.Context, store stores.Store) (*Registry, error) {
	if err := store.Migrate(ctx, migrations, "migrations"); err != nil {
		return nil, fmt.Errorf("hostinv: migrate store: %w", err)
	}
	return &Registry{store: store}, nil
}

// AddHost adds a new host to the registry, generating an ID if host.ID is
// empty.
func (r *Registry) AddHost(ctx context.Context, host *Host) error {
	if host.ID == "" {
		host.ID = uuid.New().String()
	}

	now := time.Now()
	if host.CreatedAt.IsZero() {
		host.CreatedAt = now
	}
	if host.OnboardedAt.IsZero() {
		host.OnboardedAt = now
	}
	host.UpdatedAt = now

	labelsData, err := json.Marshal(host.Labels)
	if err != nil {
		return fmt.Errorf("hostinv: marshal labels: %w", err)
	}

	_, err = r.store.DB().ExecContext(ctx,
		`INSERT INTO hosts (id, address, port, user, key_path, labels, onboarded_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		host.ID, host.Address, host.Port, host.User, host.KeyPath, string(labelsData),
		host.OnboardedAt, host.CreatedAt, host.UpdatedAt)
	if err != nil {
		return fmt.Errorf("hostinv: insert host: %w", err)
	}

	return nil
}

func scanHost(row interface{ Scan(...interface{}) error }) (*Host, error) {
	var h Host
	var labelsData string
	if err := row.Scan(&h.ID, &h.Address, &h.Port, &h.User, &h.KeyPath, &labelsData,
		&h.OnboardedAt, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(labelsData), &h.Labels); err != nil {
		return nil, fmt.Errorf("hostinv: unmarshal labels: %w", err)
	}
	return &h, nil
}

// GetHost retrieves a host by ID.
func (r *Registry) GetHost(ctx context.Context, hostID string) (*Host, error) {
	row := r.store.DB().QueryRowContext(ctx,
		`SELECT id, address, port, user, key_path, labels, onboarded_at, created_at, updated_at
		 FROM hosts WHERE id = ?`, hostID)
	h, err := scanHost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hostinv: host not found: %s", hostID)
	}
	if err != nil {
		return nil, fmt.Errorf("hostinv: get host: %w", err)
	}
	return h, nil
}

// GetHostByAddress retrieves a host by address.
func (r *Registry) GetHostByAddress(ctx context.Context, address string) (*Host, error) {
	row := r.store.DB().QueryRowContext(ctx,
		`SELECT id, address, port, user, key_path, labels, onboarded_at, created_at, updated_at
		 FROM hosts WHERE address = ? LIMIT 1`, address)
	h, err := scanHost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hostinv: host not found: %s", address)
	}
	if err != nil {
		return nil, fmt.Errorf("hostinv: get host by address: %w", err)
	}
	return h, nil
}

// ListHosts lists every registered host.
func (r *Registry) ListHosts(ctx context.Context) ([]*Host, error) {
	rows, err := r.store.DB().QueryContext(ctx,
		`SELECT id, address, port, user, key_path, labels, onboarded_at, created_at, updated_at
		 FROM hosts ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("hostinv: list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []*Host
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, fmt.Errorf("hostinv: scan host: %w", err)
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

// Resolve selects the hosts matching sel. Every non-empty field on sel is
// ANDed together: Hosts restricts by ID or address, Labels and Selector
// restrict by label match. All short-circuits to the full inventory.
func (r *Registry) Resolve(ctx context.Context, sel config.TargetSelector) ([]*Host, error) {
	all, err := r.ListHosts(ctx)
	if err != nil {
		return nil, err
	}

	if sel.All {
		return all, nil
	}

	wantLabels := make(map[string]string, len(sel.Labels)+4)
	for k, v := range sel.Labels {
		wantLabels[k] = v
	}
	for k, v := range parseSelectorString(sel.Selector) {
		wantLabels[k] = v
	}

	var hostSet map[string]bool
	if len(sel.Hosts) > 0 {
		hostSet = make(map[string]bool, len(sel.Hosts))
		for _, h := range sel.Hosts {
			hostSet[h] = true
		}
	}

	selected := make([]*Host, 0, len(all))
	for _, h := range all {
		if hostSet != nil && !hostSet[h.ID] && !hostSet[h.Address] {
			continue
		}
		if !matchesLabels(h.Labels, wantLabels) {
			continue
		}
		selected = append(selected, h)
	}
	return selected, nil
}

// UpdateHost updates an existing host's mutable fields.
func (r *Registry) UpdateHost(ctx context.Context, host *Host) error {
	host.UpdatedAt = time.Now()

	labelsData, err := json.Marshal(host.Labels)
	if err != nil {
		return fmt.Errorf("hostinv: marshal labels: %w", err)
	}

	result, err := r.store.DB().ExecContext(ctx,
		`UPDATE hosts SET address = ?, port = ?, user = ?, key_path = ?, labels = ?, updated_at = ?
		 WHERE id = ?`,
		host.Address, host.Port, host.User, host.KeyPath, string(labelsData), host.UpdatedAt, host.ID)
	if err != nil {
		return fmt.Errorf("hostinv: update host: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("hostinv: host not found: %s", host.ID)
	}
	return nil
}

// DeleteHost removes a host from the registry.
func (r *Registry) DeleteHost(ctx context.Context, hostID string) error {
	if _, err := r.store.DB().ExecContext(ctx, `DELETE FROM hosts WHERE id = ?`, hostID); err != nil {
		return fmt.Errorf("hostinv: delete host: %w", err)
	}
	return nil
}

// parseSelectorString parses a "key1=value1,key2=value2" label selector
// expression into a map. An empty string yields an empty map.
func parseSelectorString(selector string) map[string]string {
	labels := make(map[string]string)
	if selector == "" {
		return labels
	}
	for _, pair := range strings.Split(selector, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			labels[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return labels
}

// matchesLabels reports whether hostLabels satisfies every key/value pair
// in want.
func matchesLabels(hostLabels, want map[string]string) bool {
	for k, v := range want {
		if hostLabels[k] != v {
			return false
		}
	}
	return true
}
