package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ShardCount and shardFormat describe the reference project's CSV
// history shard filenames: 2023_place_canvas_history-000000000000.csv.gzip through
// -000000000052.csv.gzip.
const (
	ShardCount  = 53
	shardFormat = "2023_place_canvas_history-%012d.csv.gzip"
)

// ShardPath returns the expected path of shard index within dir.
func ShardPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf(shardFormat, index))
}

// ConvertShards fans out over every shard in dir, converting each
// shard's CSV rows to binary events in parallel, then concatenates the
// results in shard order into a single gzip-enveloped log at outPath.
// Mirrors the original source's rayon-parallel map+flatten: the
// concurrency is confined to this one offline operation, never the
// playback/render path.
func ConvertShards(ctx context.Context, dir, outPath string) error {
	chunks := make([][]byte, ShardCount)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < ShardCount; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf, err := convertShard(ShardPath(dir, i))
			if err != nil {
				return fmt.Errorf("ingest: shard %d: %w", i, err)
			}
			chunks[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("ingest: create %s: %w", outPath, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	for _, chunk := range chunks {
		if _, err := gz.Write(chunk); err != nil {
			gz.Close()
			return fmt.Errorf("ingest: write %s: %w", outPath, err)
		}
	}
	return gz.Close()
}

// convertShard reads and gzip-decompresses one shard's CSV file and
// returns its events, binary-encoded but not yet gzip-wrapped (the
// caller concatenates every shard's output under one gzip envelope).
func convertShard(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("not a gzip stream: %w", err)
	}
	defer gz.Close()

	var buf bytes.Buffer
	if err := Convert(gz, &buf, Epoch); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
