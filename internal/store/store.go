// Package store 基于 BadgerDB 保存残局题目和学生完成记录。
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"xqpuzzle/internal/puzzle"
)

// key 前缀
const (
	prefixPuzzle      = "puzzle/"
	prefixFingerprint = "fp/"
	prefixCompletion  = "done/"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicatePuzzle = errors.New("a puzzle with the same board already exists")
)

// Options Dir 为空或 InMemory 时只放内存（测试 / 临时跑）
type Options struct {
	Dir      string
	InMemory bool
}

type Store struct {
	db *badger.DB
}

func Open(o Options) (*Store, error) {
	opts := badger.DefaultOptions(o.Dir)
	if o.InMemory || o.Dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func puzzleKey(id string) []byte { return []byte(prefixPuzzle + id) }

func fingerprintKey(p *puzzle.Puzzle) []byte {
	return []byte(fmt.Sprintf("%s%016x", prefixFingerprint, p.Initial.Hash()))
}

// 学生 ID 做路径转义，'/' 不会和分隔符混淆
func completionPrefix(studentID string) string {
	return prefixCompletion + url.PathEscape(studentID) + "/"
}

func completionKey(studentID, puzzleID string) []byte {
	return []byte(completionPrefix(studentID) + puzzleID)
}

// marshalJSON 关掉 HTML 转义，走法按 "x1,y1->x2,y2" 原样落库
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// SavePuzzle 新建或覆盖一道题。ID 为空时分配 uuid；同一初始盘面只能存一道题
func (s *Store) SavePuzzle(p *puzzle.Puzzle) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	data, err := marshalJSON(p)
	if err != nil {
		return err
	}
	fp := fingerprintKey(p)

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(fp)
		switch {
		case err == nil:
			var owner string
			if err := item.Value(func(val []byte) error {
				owner = string(val)
				return nil
			}); err != nil {
				return err
			}
			if owner != p.ID {
				return fmt.Errorf("%w: %s", ErrDuplicatePuzzle, owner)
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		// 覆盖旧题时，旧盘面的指纹要一起删掉
		var old puzzle.Puzzle
		switch err := getJSON(txn, puzzleKey(p.ID), &old); {
		case err == nil:
			if oldFP := fingerprintKey(&old); string(oldFP) != string(fp) {
				if err := txn.Delete(oldFP); err != nil {
					return err
				}
			}
		case !errors.Is(err, ErrNotFound):
			return err
		}

		if err := txn.Set(puzzleKey(p.ID), data); err != nil {
			return err
		}
		return txn.Set(fp, []byte(p.ID))
	})
}

func (s *Store) GetPuzzle(id string) (*puzzle.Puzzle, error) {
	var p puzzle.Puzzle
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, puzzleKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPuzzles 按创建时间排序
func (s *Store) ListPuzzles() ([]*puzzle.Puzzle, error) {
	var out []*puzzle.Puzzle
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPuzzle)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			p := new(puzzle.Puzzle)
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, p)
			}); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) DeletePuzzle(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var p puzzle.Puzzle
		if err := getJSON(txn, puzzleKey(id), &p); err != nil {
			return err
		}
		if err := txn.Delete(fingerprintKey(&p)); err != nil {
			return err
		}
		return txn.Delete(puzzleKey(id))
	})
}
