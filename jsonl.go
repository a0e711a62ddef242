// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package artifactstore

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FallbackOutputName is the file name Hindsight uses when no output name was
// given.
const FallbackOutputName = "Hindsight"

// ReadJSONL splits JSONL input into raw records. Blank lines are skipped,
// malformed lines are kept so that they can be counted when a session is
// created. Lines have no length limit.
func ReadJSONL(r io.Reader) ([]JSONElement, error) {
	var elements []JSONElement
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "could not read jsonl")
		}
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			elements = append(elements, JSONElement(trimmed))
		}
		if err == io.EOF {
			return elements, nil
		}
	}
}

// LoadJSONL reads the raw records of a JSONL file.
func LoadJSONL(fs afero.Fs, filePath string) ([]JSONElement, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close() // nolint:errcheck
	return ReadJSONL(f)
}

// FindJSONL returns the first existing "<name>.jsonl" in dir, trying the
// given names and then the Hindsight default name.
func FindJSONL(fs afero.Fs, dir string, names ...string) (string, error) {
	candidates := append(append([]string{}, names...), FallbackOutputName)
	for _, name := range candidates {
		candidate := path.Join(dir, name+".jsonl")
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return candidate, nil
		}
	}
	return "", errors.Wrapf(os.ErrNotExist, "no jsonl output found in %s", dir)
}
