// Package pylex 提供 pytoken.Lexer 的内置实现：一个面向行的 Python 分词器。
// 它不做语法分析，只还原经典逐行分词器的可观察行为：
// token 类别、起止位置、NEWLINE 与 NL 的区分、非法字符的 Error token，
// 以及“缓冲区在词法结构中间结束”时的 ErrIncomplete 信号。
package pylex

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ashanbrown/radon/internal/pytoken"
)

// Lexer 是无状态的分词器入口，满足 pytoken.Lexer。
type Lexer struct{}

// New 创建分词器。
func New() *Lexer {
	return &Lexer{}
}

// Tokenize 对整个缓冲区做完整分词。
// 每次调用都使用独立的扫描状态，同一个 Lexer 可以被并发复用。
func (l *Lexer) Tokenize(buffer string) ([]pytoken.Token, error) {
	e := &engine{}
	return e.run(buffer)
}

// engine 保存一次分词过程的扫描状态。
type engine struct {
	tokens     []pytoken.Token
	parenDepth int
	continued  bool

	// 跨行字符串状态。strDelim 为 '、"、''' 或 """。
	inString bool
	strDelim string
	strStart pytoken.Position
	strText  strings.Builder
}

// run 逐行扫描缓冲区并在结尾做完整性检查。
func (e *engine) run(buffer string) ([]pytoken.Token, error) {
	lines := strings.Split(buffer, "\n")
	endRow := len(lines)

	// 末尾的空片段代表“输入结束”，不是一个空白行。
	trailingNewline := false
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailingNewline = true
	}

	for i, line := range lines {
		hasNewline := i < len(lines)-1 || trailingNewline
		e.scanLine(line, i+1, hasNewline)
	}

	if e.inString {
		return nil, fmt.Errorf("EOF in multi-line string starting at line %d: %w",
			e.strStart.Row, pytoken.ErrIncomplete)
	}
	if e.continued || e.parenDepth > 0 {
		return nil, fmt.Errorf("EOF in multi-line statement: %w", pytoken.ErrIncomplete)
	}

	e.emit(pytoken.KindEndMarker, "",
		pytoken.Position{Row: endRow, Col: 0}, pytoken.Position{Row: endRow, Col: 0})
	return e.tokens, nil
}

// scanLine 处理一个物理行。
// hasNewline 表示该行在缓冲区里以换行符结尾；缓冲区最后一行没有行尾 token。
func (e *engine) scanLine(line string, row int, hasNewline bool) {
	pos := 0

	switch {
	case e.inString:
		end, escaped := scanForDelim(line, 0, e.strDelim)
		if end < 0 {
			// 单引号字符串必须以反斜杠续行，否则整段视为非法 token。
			if len(e.strDelim) == 1 && !escaped {
				e.strText.WriteString(line)
				e.emit(pytoken.KindError, e.strText.String(),
					e.strStart, pytoken.Position{Row: row, Col: len(line)})
				e.inString = false
				return
			}
			e.strText.WriteString(line)
			e.strText.WriteString("\n")
			return
		}
		e.strText.WriteString(line[:end])
		e.emit(pytoken.KindString, e.strText.String(),
			e.strStart, pytoken.Position{Row: row, Col: end})
		e.inString = false
		pos = end
	case e.continued:
		e.continued = false
	case e.parenDepth == 0:
		// 新语句行：空白行与纯注释行只产生 NL，永远不产生 NEWLINE。
		pos = skipBlank(line, 0)
		if pos == len(line) {
			e.emit(pytoken.KindNL, "",
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: pos})
			return
		}
		if line[pos] == '#' {
			e.emit(pytoken.KindComment, line[pos:],
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: len(line)})
			e.emit(pytoken.KindNL, "",
				pytoken.Position{Row: row, Col: len(line)}, pytoken.Position{Row: row, Col: len(line)})
			return
		}
	}

	e.scanTokens(line, pos, row)

	if e.inString || e.continued || !hasNewline {
		return
	}
	kind := pytoken.KindNewline
	if e.parenDepth > 0 {
		kind = pytoken.KindNL
	}
	e.emit(kind, "\n",
		pytoken.Position{Row: row, Col: len(line)}, pytoken.Position{Row: row, Col: len(line) + 1})
}

// scanTokens 是行内主扫描循环。
func (e *engine) scanTokens(line string, pos int, row int) {
	for pos < len(line) {
		ch := line[pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r':
			pos++
		case ch == '#':
			e.emit(pytoken.KindComment, line[pos:],
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: len(line)})
			pos = len(line)
		case ch == '\\' && pos == len(line)-1:
			e.continued = true
			pos++
		case isStringStart(line, pos):
			pos = e.scanString(line, pos, row)
			if e.inString {
				return
			}
		case isIdentStart(ch):
			end := scanIdentifier(line, pos)
			e.emit(pytoken.KindName, line[pos:end],
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: end})
			pos = end
		case isDigit(ch) || (ch == '.' && pos+1 < len(line) && isDigit(line[pos+1])):
			end := scanNumber(line, pos)
			e.emit(pytoken.KindNumber, line[pos:end],
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: end})
			pos = end
		default:
			width := operatorWidth(line, pos)
			if width == 0 {
				e.emit(pytoken.KindError, line[pos:pos+1],
					pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: pos + 1})
				pos++
				continue
			}
			switch ch {
			case '(', '[', '{':
				e.parenDepth++
			case ')', ']', '}':
				e.parenDepth--
			}
			e.emit(pytoken.KindOp, line[pos:pos+width],
				pytoken.Position{Row: row, Col: pos}, pytoken.Position{Row: row, Col: pos + width})
			pos += width
		}
	}
}

// scanString 处理从 pos 开始的字符串字面量（含 r/b/u/f 前缀）。
// 返回扫描结束位置；三引号或反斜杠续行未闭合时进入跨行状态。
func (e *engine) scanString(line string, pos int, row int) int {
	start := pos
	p := pos
	for p < len(line) && p-pos < 2 && isStringPrefixChar(line[p]) {
		p++
	}
	quote := line[p]

	if p+2 < len(line) && line[p+1] == quote && line[p+2] == quote {
		delim := line[p : p+3]
		end, _ := scanForDelim(line, p+3, delim)
		if end >= 0 {
			e.emit(pytoken.KindString, line[start:end],
				pytoken.Position{Row: row, Col: start}, pytoken.Position{Row: row, Col: end})
			return end
		}
		e.startMultiline(line, start, row, delim)
		return len(line)
	}

	end, escaped := scanForDelim(line, p+1, string(quote))
	switch {
	case end >= 0:
		e.emit(pytoken.KindString, line[start:end],
			pytoken.Position{Row: row, Col: start}, pytoken.Position{Row: row, Col: end})
		return end
	case escaped:
		// 行尾反斜杠：单引号字符串跨行续写。
		e.startMultiline(line, start, row, string(quote))
		return len(line)
	default:
		// 未闭合的单行字符串：前缀按标识符处理，引号标记为非法字符。
		if p > start {
			e.emit(pytoken.KindName, line[start:p],
				pytoken.Position{Row: row, Col: start}, pytoken.Position{Row: row, Col: p})
		}
		e.emit(pytoken.KindError, string(quote),
			pytoken.Position{Row: row, Col: p}, pytoken.Position{Row: row, Col: p + 1})
		return p + 1
	}
}

// startMultiline 进入跨行字符串状态。
func (e *engine) startMultiline(line string, start int, row int, delim string) {
	e.inString = true
	e.strDelim = delim
	e.strStart = pytoken.Position{Row: row, Col: start}
	e.strText.Reset()
	e.strText.WriteString(line[start:])
	e.strText.WriteString("\n")
}

func (e *engine) emit(kind pytoken.Kind, text string, start, end pytoken.Position) {
	e.tokens = append(e.tokens, pytoken.Token{Kind: kind, Text: text, Start: start, End: end})
}

// scanForDelim 在 line[from:] 内寻找结束定界符，反斜杠转义其后一个字符。
// 返回定界符之后的位置；未找到时返回 -1，第二个返回值表示该行以转义换行结束。
func scanForDelim(line string, from int, delim string) (int, bool) {
	p := from
	for p < len(line) {
		if line[p] == '\\' {
			if p == len(line)-1 {
				return -1, true
			}
			p += 2
			continue
		}
		if strings.HasPrefix(line[p:], delim) {
			return p + len(delim), false
		}
		p++
	}
	return -1, false
}

// 多字符运算符在前，保证最长匹配（特别是 := 必须先于 :）。
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"!=", "<>", "->", ":=", "<=", ">=", "==",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	">>", "<<", "**", "//",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~",
	"<", ">", "(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "=",
}

func operatorWidth(line string, pos int) int {
	for _, op := range operators {
		if strings.HasPrefix(line[pos:], op) {
			return len(op)
		}
	}
	return 0
}

func skipBlank(line string, pos int) int {
	for pos < len(line) {
		ch := line[pos]
		if ch != ' ' && ch != '\t' && ch != '\f' && ch != '\r' {
			break
		}
		pos++
	}
	return pos
}

func isStringStart(line string, pos int) bool {
	p := pos
	for p < len(line) && p-pos < 2 && isStringPrefixChar(line[p]) {
		p++
	}
	return p < len(line) && (line[p] == '\'' || line[p] == '"')
}

func isStringPrefixChar(ch byte) bool {
	switch ch {
	case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		return true
	}
	return false
}

// 标识符按字节扫描，非 ASCII 字节一律视为标识符成分以兼容 Unicode 标识符。
func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= utf8.RuneSelf
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func scanIdentifier(line string, pos int) int {
	for pos < len(line) && isIdentPart(line[pos]) {
		pos++
	}
	return pos
}

// scanNumber 覆盖十进制、小数、指数、0x/0o/0b 进制与 j/J/l/L 后缀。
// 度量场景只需要正确的 token 边界，不要求数值语义校验。
func scanNumber(line string, pos int) int {
	p := pos
	if line[p] == '0' && p+1 < len(line) && isBasePrefix(line[p+1]) {
		p += 2
		for p < len(line) && (isHexDigit(line[p]) || line[p] == '_') {
			p++
		}
	} else {
		for p < len(line) && (isDigit(line[p]) || line[p] == '_') {
			p++
		}
		if p < len(line) && line[p] == '.' {
			p++
			for p < len(line) && (isDigit(line[p]) || line[p] == '_') {
				p++
			}
		}
		if p < len(line) && (line[p] == 'e' || line[p] == 'E') {
			q := p + 1
			if q < len(line) && (line[q] == '+' || line[q] == '-') {
				q++
			}
			if q < len(line) && isDigit(line[q]) {
				p = q
				for p < len(line) && isDigit(line[p]) {
					p++
				}
			}
		}
	}
	if p < len(line) && (line[p] == 'j' || line[p] == 'J' || line[p] == 'l' || line[p] == 'L') {
		p++
	}
	return p
}

func isBasePrefix(ch byte) bool {
	switch ch {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
