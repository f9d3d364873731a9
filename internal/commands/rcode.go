package commands

import (
	"fmt"
	"strings"

	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

// InstallCode installs names from the session's repositories.
func InstallCode(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, executor.QuoteR(n))
	}
	return fmt.Sprintf("install.packages(c(%s))", strings.Join(quoted, ", "))
}

// RemoveCode removes a package from the library it was found in.
func RemoveCode(rec packages.Record) string {
	return fmt.Sprintf("remove.packages(%s, lib = %s)", executor.QuoteR(rec.Name), executor.QuoteR(rec.LibPath))
}

// UpdateAllCode updates every outdated package without prompting.
const UpdateAllCode = "update.packages(ask = FALSE)"

// HelpCode opens the package index.
func HelpCode(name string) string {
	return fmt.Sprintf("help(package = %s)", executor.QuoteR(name))
}

// LoadCode attaches a package from a specific library.
func LoadCode(rec packages.Record) string {
	return fmt.Sprintf("library(%s, lib.loc = %s)", executor.QuoteR(rec.Name), executor.QuoteR(rec.LibPath))
}

// UnloadCode detaches and unloads a package.
func UnloadCode(name string) string {
	return fmt.Sprintf("detach(%s, unload = TRUE)", executor.QuoteR("package:"+name))
}
