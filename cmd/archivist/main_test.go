package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glossaryPage = `<html><head><title>Glossary of People: Ma</title></head><body>
<p><a name="marx-karl"><b>Marx, Karl</b></a> (1818-1883)</p>
<p>German philosopher. See the <a href="../../../archive/marx/index.htm">Marx archive</a>.</p>
</body></html>`

const manifestoPage = `<html><head><title>Manifesto of the Communist Party</title>
<meta name="keywords" content="Communism"></head><body>
<p class="information">Written: December 1847 to January 1848</p>
<p>A spectre is haunting Europe.</p>
<p><a href="../../../index.htm">Marx Archive</a> <a href="../../../../../glossary/people/m/a.htm#marx-karl">Marx</a></p>
</body></html>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus")
	writeFile(t, filepath.Join(corpus, "glossary", "people", "m", "a.htm"), glossaryPage)
	writeFile(t, filepath.Join(corpus, "archive", "marx", "index.htm"), `<html><head><title>Marx Archive</title></head></html>`)
	writeFile(t, filepath.Join(corpus, "archive", "marx", "works", "1848", "manifesto", "ch01.htm"), manifestoPage)

	cfgPath := filepath.Join(dir, "archivist.yaml")
	writeFile(t, cfgPath, "paths:\n"+
		"  corpus: "+corpus+"\n"+
		"  records: "+filepath.Join(dir, "records")+"\n"+
		"  edges: "+filepath.Join(dir, "edges.db")+"\n"+
		"pipeline:\n  pool_size: 2\n")
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"archivist", "--log-level", "error", "--env-file", ""}, args...))
	return out.String(), err
}

func TestInvalidLogLevel(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"archivist", "--log-level", "loud", "build-index"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRunWithoutIndex(t *testing.T) {
	cfg := setupWorkspace(t)
	_, err := run(t, "run", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build-index")
}

func TestBuildRunShow(t *testing.T) {
	cfg := setupWorkspace(t)

	out, err := run(t, "build-index", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 entities")

	out, err = run(t, "run", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 3, failed 0")

	out, err = run(t, "show", "--config", cfg, "/archive/marx/works/1848/manifesto/ch01.htm")
	require.NoError(t, err)

	var shown struct {
		Record struct {
			SourceURL   string  `json:"source_url"`
			Author      *string `json:"author"`
			DateWritten *string `json:"date_written"`
			CrossRefs   []struct {
				TargetID       string `json:"target_id"`
				TargetResolved bool   `json:"target_resolved"`
			} `json:"cross_references"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "https://www.marxists.org/archive/marx/works/1848/manifesto/ch01.htm", shown.Record.SourceURL)
	require.NotNil(t, shown.Record.Author)
	assert.Equal(t, "Karl Marx", *shown.Record.Author)
	require.NotNil(t, shown.Record.DateWritten)
	assert.Equal(t, "1848", *shown.Record.DateWritten)
	require.Len(t, shown.Record.CrossRefs, 2)
	assert.Equal(t, "/archive/marx/index.htm", shown.Record.CrossRefs[0].TargetID)
	assert.True(t, shown.Record.CrossRefs[0].TargetResolved)
	assert.Equal(t, "person:marx-karl", shown.Record.CrossRefs[1].TargetID)

	out, err = run(t, "run", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 0, failed 0, skipped 3", "a finished run resumes past every document")

	out, err = run(t, "run", "--config", cfg, "--restart")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 3, failed 0, skipped 0")
}

func TestShowMissingDocument(t *testing.T) {
	cfg := setupWorkspace(t)
	_, err := run(t, "show", "--config", cfg, "/archive/nobody.htm")
	assert.Error(t, err)

	_, err = run(t, "show", "--config", cfg)
	assert.Error(t, err)
}
