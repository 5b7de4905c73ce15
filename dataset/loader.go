// Package dataset 负责训练数据的 ingestion：CSV / JSON / Store / 特征存储。
//
// 校验发生在这一层：缺字段、零评分等非法输入在这里被拒绝（INVALID_INPUT），
// 矩阵构建层只接受干净的评分流。
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/ibcf/core"
)

// Dataset 是一次训练的完整输入。
type Dataset struct {
	Ratings []core.Rating
	Items   []core.ItemMeta // 可选；缺失时解释文案退化为原始 ID
}

// Load 按优先级加载数据集：sample JSON（demo 模式）优先，其次 ratings CSV。
// itemsCSV 可选。
func Load(ratingsCSV, itemsCSV, sampleJSON string) (*Dataset, error) {
	ds := &Dataset{}

	switch {
	case sampleJSON != "":
		ratings, err := LoadSampleJSON(sampleJSON)
		if err != nil {
			return nil, err
		}
		ds.Ratings = ratings
	case ratingsCSV != "":
		ratings, err := LoadRatingsCSV(ratingsCSV)
		if err != nil {
			return nil, err
		}
		ds.Ratings = ratings
	default:
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			"dataset: no input: need ratings csv or sample json")
	}

	if itemsCSV != "" {
		items, err := LoadItemsCSV(itemsCSV)
		if err != nil {
			return nil, err
		}
		ds.Items = items
	}
	return ds, nil
}

// LoadRatingsCSV 读取评分 CSV。
// 必需列：user_id, item_id, rating；可选列：timestamp（缺省 0）。
// 列按表头名称解析，顺序无关；表头空白会被去除。
func LoadRatingsCSV(path string) ([]core.Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, invalidInput("ratings csv is empty")
	}

	col := headerIndex(rows[0])
	for _, required := range []string{"user_id", "item_id", "rating"} {
		if _, ok := col[required]; !ok {
			return nil, invalidInput(fmt.Sprintf("ratings csv missing column %q", required))
		}
	}
	tsCol, hasTS := col["timestamp"]

	ratings := make([]core.Rating, 0, len(rows)-1)
	for n, row := range rows[1:] {
		r := core.Rating{
			UserID: strings.TrimSpace(row[col["user_id"]]),
			ItemID: strings.TrimSpace(row[col["item_id"]]),
		}
		r.Rating, err = strconv.ParseFloat(strings.TrimSpace(row[col["rating"]]), 64)
		if err != nil {
			return nil, invalidInput(fmt.Sprintf("ratings csv row %d: bad rating %q", n+2, row[col["rating"]]))
		}
		if hasTS {
			ts := strings.TrimSpace(row[tsCol])
			if ts != "" {
				r.Timestamp, err = strconv.ParseFloat(ts, 64)
				if err != nil {
					return nil, invalidInput(fmt.Sprintf("ratings csv row %d: bad timestamp %q", n+2, ts))
				}
			}
		}
		if err := validateRating(&r); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

// LoadItemsCSV 读取物品元数据 CSV。必需列：item_id；可选列：title（缺省为 item_id）。
func LoadItemsCSV(path string) ([]core.ItemMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, invalidInput("items csv is empty")
	}

	col := headerIndex(rows[0])
	if _, ok := col["item_id"]; !ok {
		return nil, invalidInput("items csv missing column \"item_id\"")
	}
	titleCol, hasTitle := col["title"]

	items := make([]core.ItemMeta, 0, len(rows)-1)
	for _, row := range rows[1:] {
		it := core.ItemMeta{ItemID: strings.TrimSpace(row[col["item_id"]])}
		if hasTitle {
			it.Title = strings.TrimSpace(row[titleCol])
		}
		if it.Title == "" {
			it.Title = it.ItemID
		}
		items = append(items, it)
	}
	return items, nil
}

// LoadSampleJSON 读取 demo 用的样本 JSON。兼容三种形态：
//  1. 直接是评分对象数组
//  2. 带 "ratings" 键的对象
//  3. 对象里任意一个元素含 user_id/item_id/rating 的数组
func LoadSampleJSON(path string) ([]core.Rating, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidInput(fmt.Sprintf("sample json: %v", err))
	}

	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case map[string]any:
		if r, ok := v["ratings"].([]any); ok {
			list = r
		} else {
			// 找第一个像评分列表的数组；key 排序保证确定性
			for _, key := range sortedMapKeys(v) {
				arr, ok := v[key].([]any)
				if !ok || len(arr) == 0 {
					continue
				}
				if obj, ok := arr[0].(map[string]any); ok {
					if _, u := obj["user_id"]; u {
						if _, i := obj["item_id"]; i {
							list = arr
							break
						}
					}
				}
			}
		}
	}
	if list == nil {
		return nil, invalidInput("sample json: no ratings list found")
	}

	ratings := make([]core.Rating, 0, len(list))
	for n, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			return nil, invalidInput(fmt.Sprintf("sample json: entry %d is not an object", n))
		}
		r := core.Rating{
			UserID: toString(obj["user_id"]),
			ItemID: toString(obj["item_id"]),
		}
		if f, ok := toFloat(obj["rating"]); ok {
			r.Rating = f
		}
		if f, ok := toFloat(obj["timestamp"]); ok {
			r.Timestamp = f
		}
		if err := validateRating(&r); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

// validateRating 校验单条评分记录：三个必需字段齐全且评分非零
//（0 是矩阵里"未评分"的哨兵值，不允许作为合法评分进入训练）。
func validateRating(r *core.Rating) error {
	if r.UserID == "" {
		return invalidInput("rating record missing user_id")
	}
	if r.ItemID == "" {
		return invalidInput("rating record missing item_id")
	}
	if r.Rating == 0 {
		return invalidInput(fmt.Sprintf("rating for user %q item %q must be nonzero", r.UserID, r.ItemID))
	}
	return nil
}

func invalidInput(msg string) error {
	return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: "+msg)
}

func headerIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	return col
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case string:
		parsed, err := strconv.ParseFloat(f, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}
