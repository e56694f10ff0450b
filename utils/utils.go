// Package utils has helpers shared by the tests of several packages.
package utils

import (
	"io/fs"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// SourceExt is the file extension of Kaleidoscope sources.
const SourceExt = ".kal"

type TestData struct {
	Label    string
	Skip     bool
	Input    string
	Expected map[string]string
}

// ReadTestData decodes a yaml list of test cases, dropping skipped ones.
func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	return slices.DeleteFunc(data, func(d TestData) bool {
		return d.Skip
	})
}

// FindSourceFiles returns every source file under dir, in lexical order.
func FindSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
