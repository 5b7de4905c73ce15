// Package dsl 提供基于 CEL (Common Expression Language) 的表达式求值，
// 用于过滤/策略规则的配置化表达。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/ibcf/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 对单个 (item, rctx) 求值布尔表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "hot"
//   - 数值：item.score > 0.7
//   - 逻辑：label.recall_source == "i2i" && item.score > 0.5
//   - 存在性：label.explanation != null
//   - 包含：label.explanation.contains("similar")
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个新的表达式求值器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{item: item, rctx: rctx, env: env}
}

// Evaluate 解析并执行表达式，返回布尔结果。空表达式恒为 true。
// 注意：CEL 访问不存在的 key 会报错，存在性检查用 label.key != null。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建表达式的输入数据。
// label 是扁平化视图：label.recall_source 直接取 Label.Value。
func (e *Eval) buildInput() map[string]any {
	labelAccessor := make(map[string]any)
	for k, v := range e.item.Labels {
		labelAccessor[k] = v.Value
	}

	item := map[string]any{
		"id":    e.item.ID,
		"score": e.item.Score,
		"meta":  e.item.Meta,
	}

	rctx := map[string]any{}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
		rctx["scene"] = e.rctx.Scene
		rctx["params"] = e.rctx.Params
	}

	return map[string]any{
		"item":  item,
		"label": labelAccessor,
		"rctx":  rctx,
	}
}
