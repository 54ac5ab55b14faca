// Package scanner 提供并发扫描调度能力。
// 该层负责目录遍历、排除规则、任务分发、并发执行和结果聚合，
// 不负责词法分析细节；单文件分析失败只记录不中断。
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ashanbrown/radon/internal/model"
	"github.com/ashanbrown/radon/internal/raw"
)

// pythonExtensions 是被识别为 Python 源码的文件后缀。
var pythonExtensions = map[string]bool{
	".py":  true,
	".pyw": true,
}

// Service 是扫描服务对象。
type Service struct {
	workers  int
	excludes []string
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	fileMetrics *model.FileMetrics
	scanError   *model.ScanError
}

// NewService 创建扫描服务。
// excludes 是 doublestar 风格的 glob 列表，匹配相对扫描根的斜杠路径。
func NewService(workers int, excludes []string) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		workers:  workers,
		excludes: excludes,
	}
}

// ScanPath 扫描目录或单文件。
// 分析需要完整文本（跨行词法组装），因此单文件一次性读入内存。
func (s *Service) ScanPath(targetPath string) (model.ScanResult, error) {
	var result model.ScanResult

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("stat path: %w", err)
	}

	result.ScannedPath = absoluteTarget

	tasks := make(chan scanTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErrChan <- s.enqueueDirectoryTasks(absoluteTarget, tasks)
			return
		}
		walkErrChan <- s.enqueueSingleFileTask(absoluteTarget, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	result.Files = make([]model.FileMetrics, 0)
	result.Errors = make([]model.ScanError, 0)

	for item := range results {
		if item.fileMetrics != nil {
			result.Files = append(result.Files, *item.fileMetrics)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	s.buildSummaries(&result)
	return result, nil
}

// enqueueDirectoryTasks 遍历目录并把未被排除的 Python 文件推入任务队列。
func (s *Service) enqueueDirectoryTasks(root string, tasks chan<- scanTask) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			return nil
		}

		if !pythonExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		displayPath := filepath.ToSlash(relativePath)

		excluded, err := s.isExcluded(displayPath)
		if err != nil {
			return err
		}
		if excluded {
			return nil
		}

		tasks <- scanTask{
			absolutePath: path,
			displayPath:  displayPath,
		}
		return nil
	})
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
// 单文件模式不应用排除规则：用户显式点名的文件总是被分析。
func (s *Service) enqueueSingleFileTask(filePath string, tasks chan<- scanTask) error {
	if !pythonExtensions[strings.ToLower(filepath.Ext(filePath))] {
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(filePath))
	}

	tasks <- scanTask{
		absolutePath: filePath,
		displayPath:  filepath.Base(filePath),
	}
	return nil
}

// isExcluded 用 doublestar 语义逐个匹配排除模式。
func (s *Service) isExcluded(displayPath string) (bool, error) {
	for _, pattern := range s.excludes {
		matched, err := doublestar.Match(pattern, displayPath)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// runWorker 执行真实的文件读取和 raw 度量分析。
func (s *Service) runWorker(tasks <-chan scanTask, results chan<- workerResult) {
	for task := range tasks {
		content, readErr := os.ReadFile(task.absolutePath)
		if readErr != nil {
			results <- workerResult{
				scanError: &model.ScanError{
					Path:  task.displayPath,
					Error: readErr.Error(),
				},
			}
			continue
		}

		metrics, analyzeErr := raw.Analyze(string(content))
		if analyzeErr != nil {
			results <- workerResult{
				scanError: &model.ScanError{
					Path:  task.displayPath,
					Error: analyzeErr.Error(),
				},
			}
			continue
		}

		results <- workerResult{
			fileMetrics: &model.FileMetrics{
				Path:    task.displayPath,
				Metrics: metrics,
			},
		}
	}
}

// buildSummaries 排序明细并计算项目总计。
func (s *Service) buildSummaries(result *model.ScanResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	result.Total = model.TotalMetrics{}
	for _, item := range result.Files {
		result.Total.AddFileMetrics(item.Metrics)
	}
}
