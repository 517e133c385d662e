package hashing

import (
	"context"
	"runtime"
	"sync"

	"corpus/internal/dataset"
)

// Apply returns a copy of samples with all three hashes populated. Hashing is
// the only stage that touches disk, so records fan out across a bounded worker
// pool; each worker writes to a distinct index and aggregation happens only
// after every worker has finished. workers <= 0 picks one per CPU. progress,
// if non-nil, is invoked once per completed record and must be safe for
// concurrent use.
func Apply(ctx context.Context, samples []dataset.Sample, workers int, progress func()) ([]dataset.Sample, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(samples) {
		workers = len(samples)
	}

	out := make([]dataset.Sample, len(samples))
	copy(out, samples)

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				hashSample(&out[i])
				if progress != nil {
					progress()
				}
			}
		}()
	}

	var ctxErr error
feed:
	for i := range out {
		select {
		case indices <- i:
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		}
	}
	close(indices)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	return out, nil
}

func hashSample(s *dataset.Sample) {
	s.TranscriptSHA256 = TranscriptSHA256(s.Transcript)
	audioHex, err := AudioSHA256(s.AudioPath)
	if err != nil {
		s.AudioSHA256 = nil
		s.PairSHA256 = nil
		return
	}
	pairHex := PairSHA256(audioHex, s.TranscriptSHA256)
	s.AudioSHA256 = &audioHex
	s.PairSHA256 = &pairHex
}
