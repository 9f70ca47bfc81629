package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d warning(s)\n", "petstore.yaml", 2)
	assert.Equal(t, "petstore.yaml: 2 warning(s)\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestWritefSwallowsWriteErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Writef(failingWriter{}, "dropped")
	})
}
