package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMatchCommand(t *testing.T) {
	t.Setenv("SIMILARITY_BACKEND", "local")
	t.Setenv("STOPWORDS_PATH", "")

	dir := t.TempDir()
	jd := writeFile(t, dir, "jd.txt", "Looking for a Python developer with experience in distributed systems and cloud infrastructure.")
	python := writeFile(t, dir, "python.txt", "Senior Python engineer, 5 years building distributed systems on cloud platforms.")
	java := writeFile(t, dir, "java.txt", "Software engineer skilled in Java and Kubernetes.")

	t.Run("enhanced report on stdout", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		app := newApp()
		app.Writer = &stdout
		app.ErrWriter = &stderr

		err := app.Run([]string{"matcher", "--embedding-provider", "hashing", "--jd", jd, "-r", java, "-r", python})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Rank,Resume,Match_Percentage,Matching_Keywords,Keyword_Count", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "1,python.txt,"))
		assert.True(t, strings.HasSuffix(lines[1], `"python, distributed, systems, cloud",4`))
		assert.Equal(t, "2,java.txt,0,,0", lines[2])
		assert.Empty(t, stderr.String())
	})

	t.Run("simple report to file", func(t *testing.T) {
		out := filepath.Join(dir, "report.csv")
		app := newApp()
		app.Writer = &bytes.Buffer{}

		err := app.Run([]string{"matcher", "--embedding-provider", "hashing", "--format", "simple", "--out", out, "--jd", jd, "--resume", python})
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "Resume,Match %\npython.txt,"))
	})

	t.Run("invalid format", func(t *testing.T) {
		err := newApp().Run([]string{"matcher", "--format", "xml", "--jd", jd, "--resume", python})
		assert.ErrorContains(t, err, "invalid format")
	})

	t.Run("unsupported resume", func(t *testing.T) {
		doc := writeFile(t, dir, "cv.docx", "x")
		err := newApp().Run([]string{"matcher", "--embedding-provider", "hashing", "--jd", jd, "--resume", doc})
		assert.ErrorContains(t, err, "unsupported file type")
	})

	t.Run("resume is required", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.ErrWriter = &bytes.Buffer{}
		err := app.Run([]string{"matcher", "--jd", jd})
		assert.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := newApp().Run([]string{"matcher", "--log-level", "loud", "--jd", jd, "--resume", python})
		assert.ErrorContains(t, err, "invalid log level")
	})
}
