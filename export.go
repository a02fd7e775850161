package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdSuffix marks export paths that are written zstd-compressed.
const zstdSuffix = ".zst"

// writeQASM saves src to path, compressing it when path ends in ".zst".
func writeQASM(path, src string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if !strings.HasSuffix(path, zstdSuffix) {
		_, err = io.WriteString(f, src)
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := io.WriteString(enc, src); err != nil {
		enc.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return enc.Close()
}

// readQASM loads a file written by writeQASM.
func readQASM(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
