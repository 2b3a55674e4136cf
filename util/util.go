package util

import (
	"bytes"
	"encoding/gob"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func EnsureDir(dir string) error {
	return errors.WithStackTrace(os.MkdirAll(dir, 0777))
}

func IsMidiPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".mid") || strings.HasSuffix(lower, ".midi")
}

// GatherAllMidiPaths walks root and returns at most maxNum midi files (0 means
// no limit) in lexical order.
func GatherAllMidiPaths(root string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsMidiPath(s) {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, errors.WithStackTrace(err)
	}
	slices.Sort(res)
	if maxNum > 0 && len(res) > maxNum {
		res = res[:maxNum]
	}
	return res, nil
}

// GetKeys returns the keys of m in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

func CreateBinary(filename string, data any) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"filename": filename}).Info("Creating binary")
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return errors.WithStackTrace(err)
	}
	return errors.WithStackTrace(os.WriteFile(filename, buf.Bytes(), 0666))
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, errors.WithStackTrace(err)
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	if err := decoder.Decode(&data); err != nil {
		return data, errors.WithStackTrace(err)
	}
	return data, nil
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}

// Count returns how many elements of s equal v.
func Count[A comparable](s []A, v A) int {
	var total int
	for _, e := range s {
		if e == v {
			total += 1
		}
	}
	return total
}

// MaxOf returns the largest element of a non-empty slice.
func MaxOf[A constraints.Ordered](s []A) A {
	res := s[0]
	for _, v := range s[1:] {
		if v > res {
			res = v
		}
	}
	return res
}

// Chunk splits s into consecutive pieces of at most size elements.
func Chunk[A any](s []A, size int) [][]A {
	var res [][]A
	for size < len(s) {
		res = append(res, s[:size:size])
		s = s[size:]
	}
	if len(s) > 0 {
		res = append(res, s)
	}
	return res
}
