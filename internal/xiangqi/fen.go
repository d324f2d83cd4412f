package xiangqi

import (
	"errors"
	"strings"
	"unicode"
)

// 标准中国象棋 FEN 字母，大写红方
var fenToKind = map[rune]Kind{
	'r': Chariot,
	'n': Horse,
	'b': Elephant,
	'a': Advisor,
	'k': General,
	'c': Cannon,
	'p': Soldier,
}

var kindToFEN = map[Kind]rune{
	Chariot:  'r',
	Horse:    'n',
	Elephant: 'b',
	Advisor:  'a',
	General:  'k',
	Cannon:   'c',
	Soldier:  'p',
}

func pieceToFEN(p Piece) rune {
	base, ok := kindToFEN[p.Kind]
	if !ok {
		return '.'
	}
	if p.Color == Red {
		return unicode.ToUpper(base)
	}
	return base
}

var ErrInvalidFEN = errors.New("invalid FEN")

// FEN 只输出棋盘部分：10 行用 “/” 隔开，空位用数字压缩
func (b *Board) FEN() string {
	var sb strings.Builder
	for y := 0; y < Rows; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for x := 0; x < Cols; x++ {
			pc := b.Cells[y][x]
			if pc.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(pieceToFEN(pc))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ParseFEN 接受完整 FEN（空格后的走子方等字段会被忽略）
func ParseFEN(fen string) (Board, error) {
	var b Board
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, ErrInvalidFEN
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != Rows {
		return b, ErrInvalidFEN
	}
	for y, row := range rows {
		x := 0
		for _, ch := range row {
			if x >= Cols {
				return b, ErrInvalidFEN
			}
			if ch >= '1' && ch <= '9' {
				x += int(ch - '0')
				continue
			}
			kind, ok := fenToKind[unicode.ToLower(ch)]
			if !ok {
				return b, ErrInvalidFEN
			}
			color := Black
			if unicode.IsUpper(ch) {
				color = Red
			}
			b.Cells[y][x] = NewPiece(color, kind)
			x++
		}
		if x != Cols {
			return b, ErrInvalidFEN
		}
	}
	return b, nil
}
