package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/studyhub/httpclient"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// print writes v to stdout in the selected format.
func (a *app) print(v any) error {
	if a.output == outputYAML {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError reports err on w, with the kind, status and code of API errors.
func printError(w io.Writer, err error) {
	apiErr, ok := httpclient.AsError(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s [%s", apiErr.Message, apiErr.Kind)
	if apiErr.Status > 0 {
		fmt.Fprintf(w, " %d", apiErr.Status)
	}
	if apiErr.Code != "" {
		fmt.Fprintf(w, " %s", apiErr.Code)
	}
	fmt.Fprintln(w, "]")
}
