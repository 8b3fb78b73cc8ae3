package library

import (
	"fmt"
	"io"

	"pexelsimport/pkg/resolver"
)

// WriteResult prints an import outcome. Porcelain output is one attachment ID per line.
func WriteResult(w io.Writer, result *resolver.ImportResult, porcelain bool) error {
	if porcelain {
		for _, id := range result.AttachmentIDs() {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
		return nil
	}

	for _, f := range result.Files {
		if _, err := fmt.Fprintf(w, "Imported file '%s' as attachment ID %d.\n", f.SourceURL, f.AttachmentID); err != nil {
			return err
		}
	}
	n := len(result.Files)
	_, err := fmt.Fprintf(w, "Success: Imported %d of %d items.\n", n, n)
	return err
}
