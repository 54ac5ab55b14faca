// Package model 定义 radon 的核心数据模型。
// 这些结构会被分析核心、扫描器、输出层和命令层共同使用。
package model

// Module 表示单文件的 raw 度量结果，由 analyze 一次性构造，之后不再修改。
//
// 字段说明：
// - LOC 是派生总行数，loc = sloc - multi - single_comments
// - LLOC 是逻辑行数（一个物理行可能包含多个逻辑行，如 a = 1; b = 2）
// - SLOC 是非空白物理行数
// - Comments 是注释 token 总数
// - Multi 是多行 docstring 占用的行数
// - Blank 是空白行数
// - SingleComments 是单行注释与单行 docstring 的行数
type Module struct {
	LOC            int `json:"loc"`
	LLOC           int `json:"lloc"`
	SLOC           int `json:"sloc"`
	Comments       int `json:"comments"`
	Multi          int `json:"multi"`
	Blank          int `json:"blank"`
	SingleComments int `json:"single_comments"`
}

// Add 将另一个度量结果叠加到当前对象，用于目录级汇总。
func (m *Module) Add(other Module) {
	m.LOC += other.LOC
	m.LLOC += other.LLOC
	m.SLOC += other.SLOC
	m.Comments += other.Comments
	m.Multi += other.Multi
	m.Blank += other.Blank
	m.SingleComments += other.SingleComments
}

// FileMetrics 表示单文件扫描结果。
type FileMetrics struct {
	Path    string `json:"path"`
	Metrics Module `json:"metrics"`
}

// ScanError 记录单文件分析失败信息。
// 设计为“错误不阻断全量扫描”：语法残缺的文件被标记后跳过，
// 不会让整个目录分析中断。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// TotalMetrics 表示项目级总计信息。
// 在 Module 基础上额外增加 Files 字段，
// 用于表达“本次扫描统计到了多少个有效源码文件”。
type TotalMetrics struct {
	Files int `json:"files"`
	Module
}

// AddFileMetrics 累加一个文件的度量值到项目总计中。
func (m *TotalMetrics) AddFileMetrics(other Module) {
	m.Files++
	m.Module.Add(other)
}

// ScanResult 是 raw 命令的完整输出模型。
// 包含文件级明细、全局总计和错误列表。
type ScanResult struct {
	ScannedPath string        `json:"scanned_path"`
	Files       []FileMetrics `json:"files"`
	Total       TotalMetrics  `json:"total"`
	Errors      []ScanError   `json:"errors"`
}
