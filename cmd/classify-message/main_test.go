package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/relief/pkg/relief/boost"
	"github.com/cognicore/relief/pkg/relief/model"
)

func trainModel(t *testing.T) string {
	t.Helper()
	params := boost.DefaultParams()
	params.NEstimators = 10
	pipe, err := model.Build(model.Config{Boost: params, Labels: []string{"related", "water", "fire"}})
	require.NoError(t, err)

	var texts []string
	var y [][]int
	for range 10 {
		texts = append(texts, "Water!", "Fire", "hello there friend")
		y = append(y, []int{1, 1, 0}, []int{1, 0, 1}, []int{0, 0, 0})
	}
	require.NoError(t, pipe.Fit(context.Background(), texts, y))

	path := filepath.Join(t.TempDir(), "classifier.msgpack")
	require.NoError(t, pipe.Save(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUsage(t *testing.T) {
	out, err := execute(t, "classifier.msgpack")
	require.NoError(t, err)
	assert.Contains(t, out, "Please provide the filepath of a trained model")
}

func TestClassify(t *testing.T) {
	path := trainModel(t)

	out, err := execute(t, path, "please", "send", "water")
	require.NoError(t, err)
	assert.Equal(t, "related\nwater\n", out)

	out, err = execute(t, path, "hello friend")
	require.NoError(t, err)
	assert.Equal(t, "(no categories)\n", out)

	out, err = execute(t, "--all", path, "fire")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "related"))
	assert.True(t, strings.HasPrefix(lines[2], "fire"))
}

func TestClassifyMissingModel(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.msgpack"), "water")
	assert.Error(t, err)
}
