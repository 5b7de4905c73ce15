// ibcf-train 全量训练 IBCF 推荐模型并输出版本化 bundle。
//
// 用法：
//
//	ibcf-train -ratings data/ratings.csv -items data/items.csv -out models/latest
//	ibcf-train -config train.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rushteam/ibcf/config"
	"github.com/rushteam/ibcf/dataset"
	"github.com/rushteam/ibcf/matrix"
	"github.com/rushteam/ibcf/modelstore"
	"github.com/rushteam/ibcf/recommend"
)

func main() {
	var (
		configPath = flag.String("config", "", "train config yaml (overrides other flags)")
		ratings    = flag.String("ratings", "", "path to ratings.csv (user_id,item_id,rating,timestamp?)")
		items      = flag.String("items", "", "optional items.csv (item_id,title)")
		sample     = flag.String("sample", "", "fallback sample json")
		out        = flag.String("out", "models/recommendation/latest", "output dir")
		aggregate  = flag.String("aggregate", "last", "duplicate rating policy: last / mean / reject")
		workers    = flag.Int("workers", 0, "similarity workers (0 = GOMAXPROCS)")
	)
	flag.Parse()

	cfg := &config.TrainConfig{
		Ratings:   *ratings,
		Items:     *items,
		Sample:    *sample,
		Out:       *out,
		Aggregate: matrix.AggregatePolicy(*aggregate),
		Workers:   *workers,
	}
	cfg.ApplyDefaults()

	if *configPath != "" {
		loaded, err := config.LoadTrainConfig(*configPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ds, err := dataset.Load(cfg.Ratings, cfg.Items, cfg.Sample)
	if err != nil {
		fatalf("load dataset: %v", err)
	}

	model := &recommend.Recommender{
		Aggregate: cfg.Aggregate,
		Workers:   cfg.Workers,
	}
	if err := model.Fit(context.Background(), ds.Ratings, ds.Items); err != nil {
		fatalf("fit: %v", err)
	}

	meta := &modelstore.Meta{
		ModelType:  cfg.ModelTag,
		TrainedAt:  time.Now().Unix(),
		NumUsers:   len(model.UserIDs),
		NumItems:   len(model.ItemIDs),
		NumRatings: len(ds.Ratings),
	}
	if err := modelstore.Save(cfg.Out, model, meta); err != nil {
		fatalf("save: %v", err)
	}

	fmt.Printf("[OK] Recommendation model saved to: %s\n", cfg.Out)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
