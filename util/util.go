// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package util

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading "~" to the current user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand path %s: %w", path, err)
	}
	return expanded, nil
}

// WriteFile writes data to outFile, creating its parent directories.
func WriteFile(data []byte, outFile string) error {
	err := os.MkdirAll(filepath.Dir(outFile), 0755)
	if err != nil {
		hclog.L().Error("WriteFile", "error creating directory", err)
		return err
	}

	err = os.WriteFile(outFile, data, 0644)
	if err != nil {
		hclog.L().Error("WriteFile", "error writing file", err)
	}
	return err
}

// FilterWalk accepts a source directory and a filter glob and returns the matching files, sorted.
func FilterWalk(srcDir, filter string) ([]string, error) {
	var fileMatches []string

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		match, err := filepath.Match(filter, filepath.Base(path))
		if match && err == nil {
			fileMatches = append(fileMatches, path)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(fileMatches)
	return fileMatches, nil
}

// Input is a file found by ExpandInputs.
type Input struct {
	// Path is the file's location.
	Path string

	// Name is the file's path relative to the directory argument it was found in, with forward slashes, or its
	// base name when the argument named the file itself.
	Name string
}

// ExpandInputs expands each path with ExpandPath and replaces directories by the files within them that match
// filter. It fails when two inputs end up with the same Name.
func ExpandInputs(paths []string, filter string) ([]Input, error) {
	var inputs []Input
	names := make(map[string]string)
	add := func(in Input) error {
		if other, ok := names[in.Name]; ok {
			return fmt.Errorf("inputs %s and %s are both named %s", other, in.Path, in.Name)
		}
		names[in.Name] = in.Path
		inputs = append(inputs, in)
		return nil
	}

	for _, p := range paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}

		stat, err := os.Stat(expanded)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			if err := add(Input{Path: expanded, Name: filepath.Base(expanded)}); err != nil {
				return nil, err
			}
			continue
		}

		matches, err := FilterWalk(expanded, filter)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			rel, err := filepath.Rel(expanded, m)
			if err != nil {
				return nil, err
			}
			if err := add(Input{Path: m, Name: filepath.ToSlash(rel)}); err != nil {
				return nil, err
			}
		}
	}
	return inputs, nil
}

// WriteJSON marshals v as indented JSON and writes it to filePath.
func WriteJSON(v any, filePath string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(b, filePath)
}

// TarGz archives and compresses the files under sourceDir into destFileName. Entries are named relative to the
// parent of sourceDir, so the archive extracts into a directory named like sourceDir.
func TarGz(sourceDir string, destFileName string) error {
	destFile, err := os.Create(destFileName)
	if err != nil {
		hclog.L().Error("TarGz", "error creating tarball", err)
		return err
	}

	gzWriter := gzip.NewWriter(destFile)
	tarWriter := tar.NewWriter(gzWriter)

	root := filepath.Dir(filepath.Clean(sourceDir))
	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		return addToTar(tarWriter, root, path, info)
	})

	// Close in order so that every layer is flushed, keeping the first error.
	for _, c := range []io.Closer{tarWriter, gzWriter, destFile} {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		hclog.L().Error("TarGz", "error writing tarball", err)
	}
	return err
}

func addToTar(tw *tar.Writer, root, path string, info os.FileInfo) error {
	name, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(name)

	sourceFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err = io.Copy(tw, sourceFile)
	return err
}
