// Package pytoken 定义 Python 词法 token 模型与分词器契约。
// 分析核心只依赖本包的接口，具体分词器实现可以替换（便于测试注入假实现）。
package pytoken

import "errors"

// ErrIncomplete 表示缓冲区在一个词法结构中间结束（未闭合的三引号字符串、
// 未配对的括号、行尾反斜杠续行）。这是可恢复的控制流信号：
// 调用方应补充下一物理行后重试，而不是把它当成用户可见错误。
var ErrIncomplete = errors.New("incomplete lexical input")

// Kind 表示 token 类别。
type Kind uint8

const (
	KindOp        Kind = iota // 运算符与标点
	KindName                  // 标识符或关键字
	KindNumber                // 数字字面量
	KindString                // 字符串字面量（含前缀与引号）
	KindComment               // # 注释
	KindNewline               // 逻辑行结束
	KindNL                    // 非逻辑行结束（空行、注释行、括号内换行）
	KindEndMarker             // 输入结束标记
	KindError                 // 非法字符或未闭合的单行字符串
)

// Position 表示源内位置。Row 从 1 开始，Col 从 0 开始。
type Position struct {
	Row int
	Col int
}

// Token 是分词器产出的不可变词法单元。
type Token struct {
	Kind  Kind
	Text  string
	Start Position
	End   Position
}

// Lexer 是注入式分词能力。
// Tokenize 对整个缓冲区做完整分词：
// - 成功时返回有序 token 序列，最后一个必然是 KindEndMarker
// - 缓冲区词法不完整时返回包装了 ErrIncomplete 的错误
// - 非法字符不会产生错误返回，而是以 KindError token 出现在序列中
type Lexer interface {
	Tokenize(buffer string) ([]Token, error)
}
