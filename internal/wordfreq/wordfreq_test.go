package wordfreq

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestExtractDictionaryOrderAndFilter(t *testing.T) {
	data := encodeTestData(t, true, [][]string{
		{"the", "of", "a"},
		{"Hello", "don't", "élan", "world", "the"},
		{"cipher"},
	})
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": data,
		"wordfreq/data/small_en.msgpack.gz": encodeTestData(t, true, [][]string{{"small"}}),
	})

	words, err := ExtractDictionary(wheelPath, Options{Limit: 10, MinLen: 2})
	if err != nil {
		t.Fatalf("ExtractDictionary failed: %v", err)
	}
	expected := []string{"the", "of", "world", "cipher"}
	if strings.Join(words, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected %v, got %v", expected, words)
	}

	small, err := ExtractDictionary(wheelPath, Options{List: "small", Limit: 10})
	if err != nil {
		t.Fatalf("ExtractDictionary failed: %v", err)
	}
	if len(small) != 1 || small[0] != "small" {
		t.Fatalf("expected small list, got %v", small)
	}
}

func TestExtractDictionaryWithoutHeader(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": encodeTestData(t, false, [][]string{{"one"}, {"two"}}),
	})
	words, err := ExtractDictionary(wheelPath, Options{Limit: 10})
	if err != nil {
		t.Fatalf("ExtractDictionary failed: %v", err)
	}
	if strings.Join(words, ",") != "one,two" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestExtractDictionaryLimit(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": encodeTestData(t, true, [][]string{{"hello", "world", "again"}, {"more"}}),
	})
	words, err := ExtractDictionary(wheelPath, Options{Limit: 2})
	if err != nil {
		t.Fatalf("ExtractDictionary failed: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if _, err := ExtractDictionary(wheelPath, Options{}); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

func TestExtractDictionaryMissingList(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq/data/large_de.msgpack.gz": encodeTestData(t, true, [][]string{{"und"}}),
	})
	if _, err := ExtractDictionary(wheelPath, Options{Limit: 5}); err == nil {
		t.Fatalf("expected error for missing english list")
	}
}

func TestExtractDictionaryRejectsFormat(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	payload, err := msgpack.Marshal([]any{map[string]any{"format": "zipf"}, []string{"word"}})
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	_, _ = gz.Write(payload)
	_ = gz.Close()
	wheelPath := writeTestWheel(t, map[string][]byte{"wordfreq/data/large_en.msgpack.gz": buf.Bytes()})
	if _, err := ExtractDictionary(wheelPath, Options{Limit: 5}); err == nil || !strings.Contains(err.Error(), "zipf") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestWriteDictionaryAndAttribution(t *testing.T) {
	wheelPath := writeTestWheel(t, map[string][]byte{
		"wordfreq-3.1.1.dist-info/LICENSE.txt": []byte("Apache License"),
	})
	outDir := t.TempDir()
	dictPath := filepath.Join(outDir, "nested", "dictionary.txt")
	if err := WriteDictionary(dictPath, []string{"had", "confidential"}); err != nil {
		t.Fatalf("WriteDictionary failed: %v", err)
	}
	content, err := os.ReadFile(dictPath)
	if err != nil || string(content) != "had\nconfidential\n" {
		t.Fatalf("unexpected dictionary contents %q: %v", content, err)
	}

	if err := WriteAttribution(wheelPath, outDir); err != nil {
		t.Fatalf("WriteAttribution failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "ATTRIBUTION.txt")); err != nil {
		t.Fatalf("expected ATTRIBUTION.txt: %v", err)
	}
	license, err := os.ReadFile(filepath.Join(outDir, "LICENSE.txt"))
	if err != nil {
		t.Fatalf("expected LICENSE.txt: %v", err)
	}
	if string(license) != "Apache License" {
		t.Fatalf("unexpected license contents: %s", string(license))
	}
}

func TestListLanguages(t *testing.T) {
	files := map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz":         []byte("x"),
		"wordfreq/data/large_pt-br.msgpack.gz":      []byte("x"),
		"wordfreq/data/small_zh-cn.msgpack.gz":      []byte("x"),
		"wordfreq/data/_chinese_mapping.msgpack.gz": []byte("x"),
		"wordfreq/data/jieba_zh.txt":                []byte("x"),
	}
	types, err := ListLanguageTypes(writeTestWheel(t, files))
	if err != nil {
		t.Fatalf("ListLanguageTypes failed: %v", err)
	}
	langs := LanguagesFromTypes(types)
	if strings.Join(langs, ",") != "en,pt-br,zh-cn" {
		t.Fatalf("unexpected languages: %v", langs)
	}
	if _, ok := types["zh-cn"]["small"]; !ok {
		t.Fatalf("expected small list for zh-cn")
	}
}

func TestDownloadLatestWheel(t *testing.T) {
	wheel := []byte("wheel-bytes")
	hits := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pypi/wordfreq/json":
			fmt.Fprintf(w, `{"info":{"version":"3.1.1"},"urls":[
				{"url":"%[1]s/sdist.tar.gz","filename":"wordfreq-3.1.1.tar.gz","packagetype":"sdist"},
				{"url":"%[1]s/wheel.whl","filename":"wordfreq-3.1.1-py3-none-any.whl","packagetype":"bdist_wheel"}]}`, srv.URL)
		case "/wheel.whl":
			hits++
			_, _ = w.Write(wheel)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := Client{Endpoint: srv.URL + "/pypi/wordfreq/json", HTTP: srv.Client()}
	cacheDir := t.TempDir()
	got, err := client.DownloadLatestWheel(context.Background(), cacheDir)
	if err != nil {
		t.Fatalf("DownloadLatestWheel failed: %v", err)
	}
	if got.Version != "3.1.1" || got.Cached || got.Filename != "wordfreq-3.1.1-py3-none-any.whl" {
		t.Fatalf("unexpected wheel: %+v", got)
	}
	content, err := os.ReadFile(got.Path)
	if err != nil || !bytes.Equal(content, wheel) {
		t.Fatalf("unexpected wheel contents %q: %v", content, err)
	}

	again, err := client.DownloadLatestWheel(context.Background(), cacheDir)
	if err != nil {
		t.Fatalf("DownloadLatestWheel failed: %v", err)
	}
	if !again.Cached || hits != 1 {
		t.Fatalf("expected cached wheel, got %+v after %d downloads", again, hits)
	}
}

func TestDownloadLatestWheelStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := Client{Endpoint: srv.URL, HTTP: srv.Client()}
	if _, err := client.DownloadLatestWheel(context.Background(), t.TempDir()); err == nil {
		t.Fatalf("expected status error")
	}
}

func encodeTestData(t *testing.T, header bool, bins [][]string) []byte {
	t.Helper()
	items := make([]any, 0, len(bins)+1)
	if header {
		items = append(items, map[string]any{"format": "cB", "version": 1})
	}
	for _, bin := range bins {
		items = append(items, bin)
	}
	payload, err := msgpack.Marshal(items)
	if err != nil {
		t.Fatalf("failed to encode msgpack: %v", err)
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		t.Fatalf("failed to gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func writeTestWheel(t *testing.T, files map[string][]byte) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "wordfreq-*.whl")
	if err != nil {
		t.Fatalf("failed to create temp wheel: %v", err)
	}
	defer func() {
		_ = tmpFile.Close()
	}()

	zw := zip.NewWriter(tmpFile)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return tmpFile.Name()
}
