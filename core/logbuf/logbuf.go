package logbuf

import (
	"strings"
	"sync"
)

// Buffer is a bounded ring of recent log lines. Installed as a
// secondary log writer so the dev-log endpoint can tail the process
// without touching files.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	carry string
}

var (
	once     sync.Once
	instance *Buffer
)

// GetInstance returns the process-wide ring (1000 lines).
func GetInstance() *Buffer {
	once.Do(func() {
		instance = New(1000)
	})
	return instance
}

func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{lines: make([]string, capacity)}
}

// Write implements io.Writer. Partial lines are carried until their
// newline arrives.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.carry + string(p)
	parts := strings.Split(text, "\n")
	b.carry = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		b.lines[b.next] = line
		b.next++
		if b.next == len(b.lines) {
			b.next = 0
			b.full = true
		}
	}
	return len(p), nil
}

// Tail returns up to n of the most recent lines, oldest first.
func (b *Buffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := b.next
	if b.full {
		size = len(b.lines)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]string, 0, n)
	start := b.next - n
	if start < 0 {
		start += len(b.lines)
	}
	for i := 0; i < n; i++ {
		out = append(out, b.lines[(start+i)%len(b.lines)])
	}
	return out
}
