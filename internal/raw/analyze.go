// Package raw 实现单文件 raw 度量：
// 以 token 流驱动的行分类器，统计 loc/lloc/sloc/comments/multi/blank/single_comments。
// 入口是 Analyze；整个分析过程是纯函数，不持有任何跨调用状态。
package raw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashanbrown/radon/internal/model"
	"github.com/ashanbrown/radon/internal/pylex"
	"github.com/ashanbrown/radon/internal/pytoken"
)

// MalformedInputError 表示行源在词法单元组装完成前被耗尽（文件被截断或语法残缺）。
// Line 是组装开始处的 1 基物理行号，用于定位问题。
type MalformedInputError struct {
	Line int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("syntax error at line %d: unterminated lexical unit", e.Line)
}

// errExhausted 是组装器内部信号：行源耗尽但缓冲区尚未分词成功。
var errExhausted = errors.New("line source exhausted")

// defaultLexer 可以被并发复用（Tokenize 每次调用使用独立状态）。
var defaultLexer = pylex.New()

// Analyze 使用内置 Python 分词器分析源码文本。
func Analyze(source string) (model.Module, error) {
	return AnalyzeWithLexer(source, defaultLexer)
}

// AnalyzeWithLexer 是核心聚合器。
// 它逐个组装 token 组并对消费掉的物理行做分类：
// - 每个 COMMENT token 计入 comments；起始列为 0 的再按跨行数计入 single_comments
// - 以 STRING 开头的纯字符串组按 docstring 处理：
//   起始列为 0 时，单行的计入 single_comments，跨行的按批次内非空行数计入 multi
// - 批次内每个物理行按是否为空计入 sloc 或 blank
// - 按分号切分后的每个语句段经 countLogical 计入 lloc
// 行源耗尽后派生 loc = sloc - multi - single_comments。
func AnalyzeWithLexer(source string, lexer pytoken.Lexer) (model.Module, error) {
	var lloc, comments, singleComments, multi, blank, sloc int

	src := newLineSource(source)
	for {
		first, lineno, ok := src.pop()
		if !ok {
			break
		}

		tokens, batch, err := assemble(first, src, lexer)
		if err != nil {
			if errors.Is(err, errExhausted) {
				return model.Module{}, &MalformedInputError{Line: lineno}
			}
			return model.Module{}, err
		}

		// 注释分类。分词器对某些形态会报告跨行的注释 token，
		// 因此单行注释数按 end_row - start_row + 1 累计。
		for _, tok := range tokens {
			if tok.Kind == pytoken.KindComment {
				comments++
				if tok.Start.Col == 0 {
					singleComments += tok.End.Row - tok.Start.Row + 1
				}
			}
		}

		// docstring 分类。列 0 启发式：只有从第 0 列开始的字符串语句
		// 才被视为文档行，表达式内部的字符串碎片不受影响。
		if tokens[0].Kind == pytoken.KindString && isDocstringGroup(tokens) {
			start := tokens[0].Start
			end := tokens[len(tokens)-2].End
			if start.Col == 0 {
				if end.Row == start.Row {
					singleComments++
				} else {
					for _, line := range batch {
						if line != "" {
							multi++
						}
					}
				}
			}
		}

		for _, line := range batch {
			if line != "" {
				sloc++
			} else {
				blank++
			}
		}

		// 分号会增加逻辑行数，先按分号切分再逐段度量。
		for _, segment := range splitOnSemicolons(tokens) {
			lloc += countLogical(segment)
		}
	}

	return model.Module{
		LOC:            sloc - multi - singleComments,
		LLOC:           lloc,
		SLOC:           sloc,
		Comments:       comments,
		Multi:          multi,
		Blank:          blank,
		SingleComments: singleComments,
	}, nil
}

// assemble 以 first 为起点逐行扩展缓冲区，直到分词成功且不含 Error token。
// 重试没有上限：遇到 ErrIncomplete 或 Error token 都继续取下一行，
// 只有行源耗尽才以 errExhausted 失败。
func assemble(first string, src *lineSource, lexer pytoken.Lexer) ([]pytoken.Token, []string, error) {
	buffer := first
	batch := []string{first}

	for {
		tokens, err := lexer.Tokenize(buffer)
		if err == nil && !hasErrorToken(tokens) {
			return tokens, batch, nil
		}
		if err != nil && !errors.Is(err, pytoken.ErrIncomplete) {
			return nil, nil, fmt.Errorf("tokenize: %w", err)
		}

		next, _, ok := src.pop()
		if !ok {
			return nil, nil, errExhausted
		}
		buffer += "\n" + next
		batch = append(batch, next)
	}
}

// isDocstringGroup 判定一个以 STRING 开头的 token 组是否是纯字符串语句：
// 第二个 token 是 ENDMARKER，或除最后两个外全部是 STRING/NL（字符串拼接）。
func isDocstringGroup(tokens []pytoken.Token) bool {
	if tokens[1].Kind == pytoken.KindEndMarker {
		return true
	}
	for _, tok := range tokens[:len(tokens)-2] {
		if tok.Kind != pytoken.KindString && tok.Kind != pytoken.KindNL {
			return false
		}
	}
	return true
}

// splitOnSemicolons 按 (KindOp, ";") 的类别与文本匹配切分 token 序列。
// 分隔符本身被丢弃；分隔符位于末尾时会留下一个空的尾段。
func splitOnSemicolons(tokens []pytoken.Token) [][]pytoken.Token {
	segments := make([][]pytoken.Token, 1)
	for _, tok := range tokens {
		if tok.Kind == pytoken.KindOp && tok.Text == ";" {
			segments = append(segments, nil)
			continue
		}
		segments[len(segments)-1] = append(segments[len(segments)-1], tok)
	}
	return segments
}

// countLogical 统计一个 token 组对应的逻辑行数。
// 一个物理行可能承载多个逻辑行：if cond: return 0 计 2（头部 + 内联语句体）。
func countLogical(tokens []pytoken.Token) int {
	total := 0
	for _, segment := range splitOnSemicolons(tokens) {
		total += logicalWeight(segment)
	}
	return total
}

// logicalWeight 度量单个语句段：
// 去掉注释后，最右侧的冒号若恰好是倒数第二个 token，该段是没有内联体的
// 复合语句头部，计 1；冒号后还有其他 token 则计 2；
// 没有冒号时，去掉 NL 与 ENDMARKER 后为空计 0，否则计 1。
func logicalWeight(segment []pytoken.Token) int {
	stripped := withoutKinds(segment, pytoken.KindComment)
	if idx := lastOpIndex(stripped, ":"); idx >= 0 {
		if idx == len(stripped)-2 {
			return 1
		}
		return 2
	}
	if len(withoutKinds(stripped, pytoken.KindNL, pytoken.KindEndMarker)) == 0 {
		return 0
	}
	return 1
}

func withoutKinds(tokens []pytoken.Token, kinds ...pytoken.Kind) []pytoken.Token {
	kept := make([]pytoken.Token, 0, len(tokens))
	for _, tok := range tokens {
		removed := false
		for _, kind := range kinds {
			if tok.Kind == kind {
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, tok)
		}
	}
	return kept
}

func lastOpIndex(tokens []pytoken.Token, text string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind == pytoken.KindOp && tokens[i].Text == text {
			return i
		}
	}
	return -1
}

func hasErrorToken(tokens []pytoken.Token) bool {
	for _, tok := range tokens {
		if tok.Kind == pytoken.KindError {
			return true
		}
	}
	return false
}

// lineSource 是惰性物理行源：pop 时去除首尾空白并记录真实物理行号。
type lineSource struct {
	lines []string
	index int
}

func newLineSource(source string) *lineSource {
	return &lineSource{lines: splitLines(source)}
}

// pop 返回下一行、其 1 基物理行号以及是否还有行。
func (s *lineSource) pop() (string, int, bool) {
	if s.index >= len(s.lines) {
		return "", 0, false
	}
	line := strings.TrimSpace(s.lines[s.index])
	s.index++
	return line, s.index, true
}

// splitLines 按 \n、\r\n、\r 切分，且不产生末尾空行，
// 与“逐物理行读取”的语义一致（空输入得到零行）。
func splitLines(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			lines = append(lines, source[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, source[start:i])
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, source[start:])
	}
	return lines
}
