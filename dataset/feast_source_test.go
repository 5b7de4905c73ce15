package dataset

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/ibcf/core"
	"github.com/rushteam/ibcf/feast"
)

type fakeFeastClient struct {
	features map[string]string // user_id -> feature payload
}

func (f *fakeFeastClient) GetOnlineFeatures(
	_ context.Context,
	req *feast.GetOnlineFeaturesRequest,
) (*feast.GetOnlineFeaturesResponse, error) {
	vectors := make([]feast.FeatureVector, len(req.EntityRows))
	for i, row := range req.EntityRows {
		values := make(map[string]any)
		user, _ := row["user_id"].(string)
		if payload, ok := f.features[user]; ok {
			values[req.Features[0]] = payload
		}
		vectors[i] = feast.FeatureVector{Values: values, EntityRow: row}
	}
	return &feast.GetOnlineFeaturesResponse{FeatureVectors: vectors}, nil
}

func (f *fakeFeastClient) Close() error { return nil }

func TestFeastSource_Load(t *testing.T) {
	src := &FeastSource{
		Client: &fakeFeastClient{features: map[string]string{
			"a": `{"y":3,"x":5}`,
		}},
		Feature: "user_stats:recent_ratings",
		Users:   []string{"a", "ghost"},
	}

	got, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// items come out sorted, users without the feature are skipped
	want := []core.Rating{
		{UserID: "a", ItemID: "x", Rating: 5},
		{UserID: "a", ItemID: "y", Rating: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestFeastSource_BadPayload(t *testing.T) {
	src := &FeastSource{
		Client:  &fakeFeastClient{features: map[string]string{"a": "{broken"}},
		Feature: "user_stats:recent_ratings",
		Users:   []string{"a"},
	}

	if _, err := src.Load(context.Background()); !core.IsInvalidInput(err) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestFeastSource_Unconfigured(t *testing.T) {
	got, err := (&FeastSource{}).Load(context.Background())
	if err != nil || got != nil {
		t.Errorf("unconfigured source: got %v, %v; want nil, nil", got, err)
	}
}
