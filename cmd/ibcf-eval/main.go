// ibcf-eval 对数据集做留一离线评估（HitRate@k / MRR@k）并输出结果 JSON。
//
// 用法：
//
//	ibcf-eval -ratings data/ratings.csv -k 10 -out evaluation/results.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rushteam/ibcf/dataset"
	"github.com/rushteam/ibcf/evaluate"
	"github.com/rushteam/ibcf/matrix"
)

func main() {
	var (
		ratings   = flag.String("ratings", "", "path to ratings.csv")
		items     = flag.String("items", "", "optional items.csv")
		sample    = flag.String("sample", "", "fallback sample json")
		k         = flag.Int("k", 10, "recommendation list size")
		workers   = flag.Int("workers", 0, "parallel evaluation workers")
		aggregate = flag.String("aggregate", "last", "duplicate rating policy")
		out       = flag.String("out", "evaluation/results.json", "results output path")
	)
	flag.Parse()

	ds, err := dataset.Load(*ratings, *items, *sample)
	if err != nil {
		fatalf("load dataset: %v", err)
	}

	result, err := evaluate.Run(context.Background(), ds.Ratings, ds.Items, evaluate.Options{
		K:         *k,
		Workers:   *workers,
		Aggregate: matrix.AggregatePolicy(*aggregate),
	})
	if err != nil {
		fatalf("evaluate: %v", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatalf("encode results: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fatalf("write results: %v", err)
	}

	fmt.Printf("[OK] Wrote: %s\n", *out)
	fmt.Println(string(data))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
