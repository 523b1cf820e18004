package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ComfyFluffy/rplace-2023/codec"
)

func writeShard(t *testing.T, dir string, index int, csv string) {
	t.Helper()
	f, err := os.Create(ShardPath(dir, index))
	if err != nil {
		t.Fatalf("create shard %d: %v", index, err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(csv)); err != nil {
		t.Fatalf("write shard %d: %v", index, err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close shard %d: %v", index, err)
	}
}

func TestConvertShardsPreservesShardOrder(t *testing.T) {
	dir := t.TempDir()
	header := "timestamp,user,coordinate,pixel_color\n"
	for i := 0; i < ShardCount; i++ {
		writeShard(t, dir, i, header)
	}
	// Shard 5 gets the earlier event, shard 2 the later one; output
	// must still list shard 2's event before shard 5's, in shard-index
	// order, regardless of goroutine completion order.
	writeShard(t, dir, 2, header+"2023-07-20 13:00:27.088 UTC,u,\"1,2\",#010101\n")
	writeShard(t, dir, 5, header+"2023-07-20 13:00:26.088 UTC,u,\"3,4\",#020202\n")

	out := filepath.Join(dir, "pixels.bin.gz")
	if err := ConvertShards(context.Background(), dir, out); err != nil {
		t.Fatalf("ConvertShards: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}

	dec := codec.NewDecoder(gz)
	e1, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode first event: %v", err)
	}
	if e1.Color.R != 0x01 {
		t.Fatalf("first event colour: have %+v, want shard 2's event first", e1)
	}
	e2, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode second event: %v", err)
	}
	if e2.Color.R != 0x02 {
		t.Fatalf("second event colour: have %+v, want shard 5's event second", e2)
	}
}

func TestConvertShardsMissingShardErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pixels.bin.gz")
	if err := ConvertShards(context.Background(), dir, out); err == nil {
		t.Fatal("expected error when no shard files exist")
	}
}

func TestShardPathFormat(t *testing.T) {
	p := ShardPath("/data", 7)
	want := filepath.Join("/data", "2023_place_canvas_history-000000000007.csv.gzip")
	if p != want {
		t.Fatalf("ShardPath\nhave %s\nwant %s", p, want)
	}
}

func TestConvertShardSingle(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, 0, "timestamp,user,coordinate,pixel_color\n"+
		"2023-07-20 13:00:26.088 UTC,u,\"1,2\",#FFFFFF\n")
	buf, err := convertShard(ShardPath(dir, 0))
	if err != nil {
		t.Fatalf("convertShard: %v", err)
	}
	dec := codec.NewDecoder(bytes.NewReader(buf))
	e, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Color != (codec.Color{R: 0xFF, G: 0xFF, B: 0xFF}) {
		t.Fatalf("have %+v", e.Color)
	}
}
