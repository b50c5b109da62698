package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var ErrInjected = errors.New("media: injected failure")

// MemoryStore keeps assets in memory. It backs tests and local runs without
// an object store.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUploads makes the next N uploads fail.
	FailUploads int
	// FailDeletes makes every delete fail.
	FailDeletes bool

	Uploads int
	Deletes []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Upload(_ context.Context, folder string, u Upload) (Asset, error) {
	if u.Open == nil {
		return Asset{}, ErrEmptyUpload
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploads++
	if m.FailUploads > 0 {
		m.FailUploads--
		return Asset{}, ErrInjected
	}

	rc, err := u.Open()
	if err != nil {
		return Asset{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return Asset{}, err
	}

	key := objectKey(folder, u.Filename)
	m.objects[key] = data
	return Asset{URL: fmt.Sprintf("memory://%s", key), ID: key}, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deletes = append(m.Deletes, id)
	if m.FailDeletes {
		return ErrInjected
	}
	delete(m.objects, id)
	return nil
}

func (m *MemoryStore) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[id]
	return ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
