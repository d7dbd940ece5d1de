package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"keystack/sdk"
)

type errorOutput struct {
	Error      string `json:"error"`
	Operation  string `json:"operation,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Details    any    `json:"details,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) print(v any) error {
	return writeJSON(c.out, v)
}

func (c *cli) printError(err error) {
	apiErr, ok := sdk.AsAPIError(err)
	if !ok {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
		return
	}
	if werr := writeJSON(c.errOut, errorOutput{
		Error:      apiErr.Message,
		Operation:  apiErr.Operation,
		StatusCode: apiErr.StatusCode,
		Details:    apiErr.Details,
	}); werr != nil {
		fmt.Fprintf(c.errOut, "Error: %v\n", err)
	}
}
