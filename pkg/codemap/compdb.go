// Package codemap builds documentation-oriented views of a C/C++
// codebase from its compilation database: an include/component graph
// and a lightweight API index. Analysis is text-based and intentionally
// approximate; output says so.
package codemap

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"mvdan.cc/sh/v3/shell"
)

// ErrDatabaseNotFound means compile_commands.json does not exist at the
// resolved path. Commands translate it to exit code 2.
var ErrDatabaseNotFound = errors.New("compile_commands.json not found")

// ErrNoTranslationUnits means no database entry matched the requested
// inputs. Commands translate it to exit code 3.
var ErrNoTranslationUnits = errors.New("no translation units matched inputs")

// CompileCommand is one entry of a compilation database with the file
// path resolved against the entry directory.
type CompileCommand struct {
	Directory string
	File      string
	Arguments []string
}

type compdbEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
}

// LoadCompileCommands reads a compile_commands.json. Entries carry
// either an "arguments" list or a shell-quoted "command" string.
func LoadCompileCommands(path string) ([]CompileCommand, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDatabaseNotFound
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var entries []compdbEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	commands := make([]CompileCommand, 0, len(entries))
	for _, entry := range entries {
		arguments := entry.Arguments
		if len(arguments) == 0 && entry.Command != "" {
			arguments, err = shell.Fields(entry.Command, nil)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to split command for %s", entry.File)
			}
		}

		file := entry.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(entry.Directory, file)
		}

		commands = append(commands, CompileCommand{
			Directory: filepath.Clean(entry.Directory),
			File:      filepath.Clean(file),
			Arguments: arguments,
		})
	}
	return commands, nil
}

// SelectTargets picks the database entries matching the given files or
// directories, sorted by file path.
func SelectTargets(commands []CompileCommand, inputs []string) ([]CompileCommand, error) {
	resolved := make([]string, 0, len(inputs))
	dirs := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve input %s", input)
		}
		resolved = append(resolved, abs)
		if info, err := os.Stat(abs); err == nil {
			dirs[abs] = info.IsDir()
		}
	}

	var selected []CompileCommand
	for _, cmd := range commands {
		for _, input := range resolved {
			if dirs[input] {
				if isUnder(cmd.File, input) {
					selected = append(selected, cmd)
					break
				}
				continue
			}
			if cmd.File == input {
				selected = append(selected, cmd)
				break
			}
		}
	}

	if len(selected) == 0 {
		return nil, ErrNoTranslationUnits
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].File < selected[j].File })
	return selected, nil
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// DatabasePath resolves an explicit --compdb value or falls back to
// <root>/compile_commands.json.
func DatabasePath(arg, root string) string {
	if arg != "" {
		return arg
	}
	return filepath.Join(root, "compile_commands.json")
}
