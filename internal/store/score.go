package store

import (
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Completion 学生完成一道题的记录
type Completion struct {
	StudentID string    `json:"student_id"`
	PuzzleID  string    `json:"puzzle_id"`
	Score     int       `json:"score"`
	At        time.Time `json:"at"`
}

// RankEntry 排行榜一行
type RankEntry struct {
	StudentID  string `json:"student_id"`
	TotalScore int    `json:"total_score"`
	Solved     int    `json:"solved"`
}

// RecordCompletion 同一学生同一道题只记一次分；返回是否为新记录
func (s *Store) RecordCompletion(c Completion) (bool, error) {
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}
	data, err := marshalJSON(c)
	if err != nil {
		return false, err
	}
	key := completionKey(c.StudentID, c.PuzzleID)

	created := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		created = true
		return txn.Set(key, data)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Completions 某个学生的全部完成记录
func (s *Store) Completions(studentID string) ([]Completion, error) {
	var out []Completion
	err := s.scanCompletions(completionPrefix(studentID), func(c Completion) {
		out = append(out, c)
	})
	return out, err
}

// Rank 总分从高到低；同分按完成题数、再按学生 ID
func (s *Store) Rank() ([]RankEntry, error) {
	byStudent := make(map[string]*RankEntry)
	err := s.scanCompletions(prefixCompletion, func(c Completion) {
		e, ok := byStudent[c.StudentID]
		if !ok {
			e = &RankEntry{StudentID: c.StudentID}
			byStudent[c.StudentID] = e
		}
		e.TotalScore += c.Score
		e.Solved++
	})
	if err != nil {
		return nil, err
	}

	out := make([]RankEntry, 0, len(byStudent))
	for _, e := range byStudent {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		if out[i].Solved != out[j].Solved {
			return out[i].Solved > out[j].Solved
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}

func (s *Store) scanCompletions(prefix string, fn func(Completion)) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var c Completion
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &c)
			}); err != nil {
				return err
			}
			fn(c)
		}
		return nil
	})
}
