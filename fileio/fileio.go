package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrInputUnavailable = errors.New("input unavailable")

// ReadFile reads a whole file into memory.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInputUnavailable, path, err)
	}
	return data, nil
}

// WriteFile creates or truncates path. The close error is reported if the write succeeded.
func WriteFile(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}
