package testdata

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
)

//go:embed hands/*
var handsFS embed.FS

// LoadSequence loads a recorded landmark sequence, one /api/landmarks message per line.
func LoadSequence(name string) ([][]byte, error) {
	data, err := handsFS.ReadFile("hands/" + name)
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}

	var messages [][]byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		messages = append(messages, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan sequence %s: %w", name, err)
	}

	return messages, nil
}
