package server

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// RunStdio serves line-delimited JSON-RPC until in closes or ctx is
// cancelled. Requests are handled concurrently; writes to out are
// serialized.
func (s *Service) RunStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	var writeMutex sync.Mutex
	var workers sync.WaitGroup

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		workers.Add(1)
		go func(raw []byte) {
			defer workers.Done()
			response := s.HandleMessage(ctx, raw)
			if response == nil {
				return
			}
			writeMutex.Lock()
			defer writeMutex.Unlock()
			out.Write(response)
			out.Write([]byte("\n"))
		}(line)
	}
	workers.Wait()
	return scanner.Err()
}
