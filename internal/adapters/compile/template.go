package compile

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// RenderTemplate writes src to dst with every @KEY@ and ${KEY} placeholder of
// values replaced. Unknown placeholders are left as they are.
func RenderTemplate(src, dst string, values map[string]string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zerr.With(zerr.Wrap(domain.ErrTemplateMissing, "template not found"), "path", src)
		}
		return zerr.With(zerr.Wrap(err, "failed to read template"), "path", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", dst)
	}

	rendered := replacer(values).Replace(string(content))
	if err := os.WriteFile(dst, []byte(rendered), 0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write rendered template"), "path", dst)
	}
	return nil
}

func replacer(values map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, 4*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "@"+k+"@", values[k], "${"+k+"}", values[k])
	}
	return strings.NewReplacer(pairs...)
}
