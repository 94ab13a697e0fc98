package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn

	mu      sync.Mutex
	Batches []*MockBatch

	PrepareBatchErr error
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.PrepareBatchErr != nil {
		return nil, m.PrepareBatchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := &MockBatch{}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockClickHouseConn) AppendedRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.Batches {
		total += len(b.Appended)
	}
	return total
}

func (m *MockClickHouseConn) SentBatches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := 0
	for _, b := range m.Batches {
		if b.Sent {
			sent++
		}
	}
	return sent
}

// MockBatch implements driver.Batch
type MockBatch struct {
	mu       sync.Mutex
	Appended [][]interface{}
	Sent     bool

	AppendErr error
	SendErr   error
}

func (m *MockBatch) IsSent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sent
}

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Appended)
}

func (m *MockBatch) Append(v ...interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error { return nil }

func (m *MockBatch) Column(int) driver.BatchColumn { return nil }

func (m *MockBatch) Send() error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = true
	return nil
}

func (m *MockBatch) Flush() error { return nil }

func (m *MockBatch) Abort() error { return nil }
