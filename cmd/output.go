package cmd

import (
	"encoding/json"
	"io"

	"mrcfield/internal/errs"
)

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errs.Wrap(err, "write json output")
	}
	return nil
}
