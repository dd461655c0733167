package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const flushInterval = 2 * time.Second

// AsyncFileWriter buffers log lines through a channel so request handling
// never blocks on disk. Entries are dropped when the channel is full.
type AsyncFileWriter struct {
	writer *bufio.Writer
	file   *os.File
	mu     sync.Mutex
	lines  chan []byte
	done   chan struct{}
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		writer: bufio.NewWriterSize(file, bufferSize),
		file:   file,
		lines:  make(chan []byte, 1000),
		done:   make(chan struct{}),
	}
	go w.drain()

	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	select {
	case w.lines <- append([]byte(nil), p...):
		return len(p), nil
	default:
		// full buffer drops the line rather than stalling the caller
		return 0, nil
	}
}

func (w *AsyncFileWriter) drain() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-w.lines:
			w.mu.Lock()
			if _, err := w.writer.Write(line); err != nil {
				fmt.Println("error writing log line to file", err)
			}
			w.mu.Unlock()

		case <-ticker.C:
			w.flush()

		case <-w.done:
			w.flush()
			return
		}
	}
}

func (w *AsyncFileWriter) flush() {
	w.mu.Lock()
	_ = w.writer.Flush()
	w.mu.Unlock()
}

func (w *AsyncFileWriter) Close() {
	close(w.done)
	_ = w.file.Close()
}
