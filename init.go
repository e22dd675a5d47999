package zakki

import (
	"fmt"
	"path/filepath"

	"github.com/alnah/go-zakki/internal/assets"
	"github.com/alnah/go-zakki/internal/config"
	"github.com/alnah/go-zakki/internal/fileutil"
)

// ThemeDir is where Init exports the theme when asked to.
const ThemeDir = "theme"

const welcomePage = `---
create: %[1]s
update: %[1]s
tags: [zakki]
---

# Welcome

This page was created by ` + "`zakki init`" + `. Edit it, then run ` + "`zakki build`" + `.

## Front matter

- ` + "`create`" + ` and ` + "`update`" + ` are required dates.
- ` + "`tags`" + ` and ` + "`flags`" + ` are optional lists; flags are ` + "`draft`" + ` and ` + "`crypto`" + `.
`

// Init writes a starter site into dir: zakki.yaml, a source directory with
// a welcome page and, when exportTheme is set, an editable copy of the
// embedded theme. Existing files are left untouched. It returns the paths
// it created.
func Init(dir, today string, exportTheme bool) ([]string, error) {
	var created []string
	write := func(path string, content []byte) error {
		if fileutil.FileExists(path) {
			return nil
		}
		if err := fileutil.WriteFile(path, content); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		created = append(created, path)
		return nil
	}

	if err := write(filepath.Join(dir, config.DefaultName+".yaml"), []byte(config.Sample())); err != nil {
		return created, err
	}
	welcome := filepath.Join(dir, config.DefaultSourceDir, "welcome.md")
	if err := write(welcome, fmt.Appendf(nil, welcomePage, today)); err != nil {
		return created, err
	}

	if exportTheme {
		theme := filepath.Join(dir, ThemeDir)
		if fileutil.DirExists(theme) {
			return created, nil
		}
		if err := assets.Export(assets.NewEmbeddedLoader(), theme); err != nil {
			return created, err
		}
		created = append(created, theme)
	}
	return created, nil
}
