// =============================================================================
// Compute Sales - File Manager Utility
// =============================================================================
//
// This module provides the file helpers shared by the report, export and
// metrics writers:
//   - Line-oriented text output (truncating any previous content)
//   - Binary output for generated documents
//   - Output file name generation from placeholder templates
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE OUTPUT
// =============================================================================

// WriteLines writes each line followed by a newline to path, replacing any
// previous content.
func WriteLines(path string, lines []string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}

// WriteFile writes data to path, creating the parent directory if needed.
func WriteFile(path string, data []byte) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// FILE NAME GENERATION
// =============================================================================

// GenerateOutputFileName expands the placeholders in format.
//
// PARAMETERS:
//   - format: The file name template.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//             plus any key of params, e.g. {run_id}.
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "exports/sales_{date}_{run_id}.xlsx"
//   params: {"run_id": "3f2a..."}
//   output: "exports/sales_20240115_3f2a....xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	if !strings.Contains(format, "{") {
		return format
	}

	now := time.Now()
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
