package gen

import (
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"paramtest-generator/internal/config"
	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/directive"
)

var writeTxtarGolden = flag.Bool("write-txtar-golden", false, "If true, writes out golden files in txtar archives")

// Archives in testdata hold a package: its .go files, an optional
// paramtest.yaml, and either the expected output under want/ or the
// expected error text in a file named error.
const (
	wantPrefix = "want/"
	errorFile  = "error"
)

func TestTxtarGenerate(t *testing.T) {
	txtarFiles, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)

	if len(txtarFiles) == 0 {
		t.Skip("no txtar files found")
	}

	for _, txtarFile := range txtarFiles {
		t.Run(strings.TrimSuffix(filepath.Base(txtarFile), ".txtar"), func(t *testing.T) {
			runTxtarTest(t, txtarFile)
		})
	}
}

func runTxtarTest(t *testing.T, txtarFile string) {
	archive, err := txtar.ParseFile(txtarFile)
	require.NoError(t, err)

	dir := t.TempDir()

	want := make(map[string]string)

	var (
		wantErr string
		inputs  []string
	)

	for _, file := range archive.Files {
		switch {
		case strings.HasPrefix(file.Name, wantPrefix):
			want[strings.TrimPrefix(file.Name, wantPrefix)] = string(file.Data)
		case file.Name == errorFile:
			wantErr = strings.TrimSpace(string(file.Data))
		default:
			path := filepath.Join(dir, file.Name)
			require.NoError(t, os.WriteFile(path, file.Data, filePerm))

			if strings.HasSuffix(file.Name, ".go") {
				inputs = append(inputs, path)
			}
		}
	}

	got, err := generateDir(dir, inputs)
	if err != nil {
		msg := strings.ReplaceAll(err.Error(), dir+string(filepath.Separator), "")

		if *writeTxtarGolden {
			updateArchive(t, txtarFile, archive, map[string]string{errorFile: msg + "\n"})
			return
		}

		require.NotEmpty(t, wantErr, "unexpected error: %s", msg)
		require.Contains(t, msg, wantErr)

		return
	}

	require.Empty(t, wantErr, "expected error %q, got none", wantErr)

	if *writeTxtarGolden {
		updates := make(map[string]string, len(got))
		for name, content := range got {
			updates[wantPrefix+name] = content
		}

		updateArchive(t, txtarFile, archive, updates)

		return
	}

	if diff := cmp.Diff(sortedKeys(want), sortedKeys(got)); diff != "" {
		t.Fatalf("generated files mismatch (-want +got):\n%s", diff)
	}

	for name, content := range got {
		if diff := cmp.Diff(want[name], content); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

// generateDir runs the whole pipeline over the files of one package
// directory, the way the gen command does.
func generateDir(dir string, paths []string) (map[string]string, error) {
	cfg, _, err := config.Discover(dir)
	if err != nil {
		return nil, err
	}

	res := &diagnostic.Diagnostics{}

	var files, sources []*directive.File

	for _, path := range paths {
		f, fres, err := directive.LoadFile(path)
		if err != nil {
			return nil, err
		}

		res.Merge(fres)

		switch {
		case f == nil:
		case f.IsDirective():
			files = append(files, f)
		default:
			sources = append(sources, f)
		}
	}

	if err := res.Error(); err != nil {
		return nil, err
	}

	g := NewGenerator(ConfigFrom(cfg))
	g.SetSources(sources)

	generated, err := g.Generate(files)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(generated))
	for _, f := range generated {
		out[f.Filename] = string(f.Content)
	}

	return out, nil
}

func updateArchive(t *testing.T, txtarFile string, archive *txtar.Archive, updates map[string]string) {
	t.Helper()

	updated := &txtar.Archive{Comment: archive.Comment}

	for _, file := range archive.Files {
		if strings.HasPrefix(file.Name, wantPrefix) || file.Name == errorFile {
			continue
		}

		updated.Files = append(updated.Files, file)
	}

	for _, name := range sortedKeys(updates) {
		updated.Files = append(updated.Files, txtar.File{Name: name, Data: []byte(updates[name])})
	}

	require.NoError(t, os.WriteFile(txtarFile, txtar.Format(updated), filePerm))
	t.Logf("wrote updated txtar file: %s", txtarFile)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
