package gitlog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

// maxLineSize bounds a single log line; long commit subjects easily exceed bufio's 64 KiB default.
const maxLineSize = 1024 * 1024

// ScanLines lazily yields the lines of r. It stops with ctx.Err() once ctx is cancelled.
func ScanLines(ctx context.Context, r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(strings.TrimRight(scanner.Text(), "\r"), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("failed to read log stream: %w", err))
		}
	}
}

// FromSlice adapts an in-memory slice to the error-carrying sequences used by the folds.
func FromSlice[T any](items []T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
