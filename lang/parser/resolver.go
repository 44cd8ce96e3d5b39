package parser

import (
	"path/filepath"
	"strings"

	"github.com/mna/rustcript/lang/scanner"
	"github.com/mna/rustcript/lang/token"
)

// Loader reads the raw text of a script file given its path — the
// abstract "source loader" contract of spec §4.3. The CLI wires this to
// os.ReadFile; an embedder may supply a virtual filesystem or an
// embed.FS-backed function instead.
type Loader func(path string) (string, error)

// Resolve recursively inlines rootPath and everything it imports into a
// single unified source string, alongside a LineTable mapping each line
// of that string back to the (path, line) it was written at (spec §4.3).
func Resolve(rootPath string, load Loader) (string, token.LineTable, error) {
	r := &resolver{load: load, visited: make(map[string]bool)}
	if err := r.inline(rootPath); err != nil {
		return "", nil, err
	}
	return r.out.String(), r.lines, nil
}

type resolver struct {
	load    Loader
	visited map[string]bool
	lines   token.LineTable
	out     strings.Builder
}

func (r *resolver) emit(line string, pos token.Position) {
	r.out.WriteString(line)
	r.out.WriteByte('\n')
	r.lines = append(r.lines, pos)
}

// inline loads path, splices in every file it imports, and appends the
// result to r.out. Re-entering a path already visited — whether because
// of an import cycle or a harmless duplicate import — is a no-op: spec
// §4.3 specifies idempotent re-import, not an error, and a single
// "visited" set gives both cycle-safety and dedup for free.
func (r *resolver) inline(path string) error {
	canon := filepath.Clean(path)
	if r.visited[canon] {
		return nil
	}
	r.visited[canon] = true

	text, err := r.load(canon)
	if err != nil {
		return ioErrorf("cannot load %s: %s", canon, err.Error())
	}

	baseDir := filepath.Dir(canon)
	lineNo := 0
	for _, raw := range strings.Split(text, "\n") {
		lineNo++
		trimmed := strings.TrimSpace(stripComment(raw))
		if trimmed == "" {
			r.emit("", token.Position{Path: canon, Line: lineNo})
			continue
		}
		if !strings.HasPrefix(trimmed, "import") {
			r.emit(raw, token.Position{Path: canon, Line: lineNo})
			continue
		}
		impPath, impAs, ok, perr := parseImportLine(trimmed)
		if perr != nil {
			return perr
		}
		if !ok {
			// A name merely starting with "import" (e.g. an identifier) — not
			// an import directive; pass through untouched.
			r.emit(raw, token.Position{Path: canon, Line: lineNo})
			continue
		}
		if !filepath.IsAbs(impPath) {
			impPath = filepath.Join(baseDir, impPath)
		}
		if impAs != "" {
			r.emit("module "+impAs+" [", token.Position{Path: canon, Line: lineNo})
			if err := r.inline(impPath); err != nil {
				return err
			}
			r.emit("]", token.Position{Path: canon, Line: lineNo})
		} else if err := r.inline(impPath); err != nil {
			return err
		}
	}
	return nil
}

// stripComment removes a trailing `#…` line comment, respecting string
// literals so a '#' inside a quoted string is not mistaken for one.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			inString = !inString
		case '#':
			if !inString {
				return line[:i]
			}
		}
	}
	return line
}

// parseImportLine recognizes `import 'path' [as NS]`. ok is false if the
// line is not actually an import directive (e.g. a variable named
// "import_count" passed the HasPrefix check in inline).
func parseImportLine(line string) (path, as string, ok bool, err error) {
	var sc scanner.Scanner
	var val token.Value
	var scanErr error
	sc.Init(token.Position{}, line, func(_ token.Position, msg string) { scanErr = errFrom(msg) })

	if tok := sc.Scan(&val); tok != token.IMPORT {
		return "", "", false, nil
	}
	tok := sc.Scan(&val)
	if tok != token.STRING {
		return "", "", false, &Error{Kind: "SyntaxError", Message: "import: expected a string path"}
	}
	path = val.Str
	if tok = sc.Scan(&val); tok == token.AS {
		tok = sc.Scan(&val)
		if tok != token.IDENT {
			return "", "", false, &Error{Kind: "SyntaxError", Message: "import: expected identifier after 'as'"}
		}
		as = val.Str
	}
	if scanErr != nil {
		return "", "", false, scanErr
	}
	return path, as, true, nil
}

func errFrom(msg string) error {
	return &Error{Kind: "SyntaxError", Message: msg}
}
