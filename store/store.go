// Package store 提供 core.Store / core.KeyValueStore 的基础设施实现。
//
// 注意：接口定义在 core 包，此包只包含实现。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store
