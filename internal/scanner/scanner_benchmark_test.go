package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// prepareBenchmarkFile 创建一个用于单文件扫描基准测试的 Python 文件。
func prepareBenchmarkFile(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	filePath := filepath.Join(tempDir, "large.py")

	lines := make([]string, 0, 6000)
	lines = append(lines, `"""Benchmark fixture."""`, "")
	for i := 0; i < 2000; i++ {
		name := strconv.Itoa(i)
		lines = append(lines, "value"+name+" = 1  # inline comment")
		lines = append(lines, "# standalone comment")
		lines = append(lines, "def f"+name+"(): return value"+name)
	}

	if err := os.WriteFile(filePath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		b.Fatalf("write benchmark fixture failed: %v", err)
	}
	return filePath
}

// prepareBenchmarkDirectory 创建目录扫描基准测试数据。
func prepareBenchmarkDirectory(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	for i := 0; i < 200; i++ {
		pyFile := filepath.Join(tempDir, "pkg", "m"+strconv.Itoa(i)+".py")

		if err := os.MkdirAll(filepath.Dir(pyFile), 0o755); err != nil {
			b.Fatalf("mkdir fixture dir failed: %v", err)
		}
		if err := os.WriteFile(pyFile, []byte("x = 1  # c\nif x: x = 2\n"), 0o644); err != nil {
			b.Fatalf("write fixture failed: %v", err)
		}
	}
	return tempDir
}

// BenchmarkScanSingleFile 衡量单文件扫描性能。
func BenchmarkScanSingleFile(b *testing.B) {
	filePath := prepareBenchmarkFile(b)
	service := NewService(1, nil)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := service.ScanPath(filePath); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}

// BenchmarkScanDirectory 衡量目录并发扫描性能。
func BenchmarkScanDirectory(b *testing.B) {
	dirPath := prepareBenchmarkDirectory(b)
	service := NewService(8, nil)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := service.ScanPath(dirPath); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}
