package compile

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/heifsys/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultVersion is written when no template names the package version.
const DefaultVersion = "0"

// WritePackageDescription installs <out>/lib/pkgconfig/<step>.pc so the
// directly compiled library resolves like one installed by its own build.
func WritePackageDescription(step *domain.Step) (string, error) {
	out := step.Output()
	path := filepath.Join(out.PkgConfigDir(), step.Name.String()+".pc")

	content := fmt.Sprintf(`prefix=%s
libdir=${prefix}/lib
includedir=${prefix}/include

Name: %s
Description: %s built from an explicit source list
Version: %s
Libs: -L${libdir} -l%s
Cflags: -I${includedir}
`, out.Root, step.Name, step.Name, packageVersion(step), libraryName(step))

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create pkgconfig dir"), "path", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write package description"), "path", path)
	}
	return path, nil
}

func packageVersion(step *domain.Step) string {
	for _, tmpl := range step.Templates {
		if v := tmpl.Values["PACKAGE_VERSION"]; v != "" {
			return v
		}
	}
	return DefaultVersion
}
