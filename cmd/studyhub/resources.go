package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/studyhub/client"
	"github.com/kbukum/studyhub/httpclient"
	"github.com/kbukum/studyhub/search"
	"github.com/kbukum/studyhub/version"
)

const defaultUploadPath = "/api/v1/documents"

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "GET an API path and print the response",
		Example: "  studyhub get /api/v1/subjects\n" +
			"  studyhub get /api/v1/subjects/42 -o yaml",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := client.Get[any](cmd.Context(), a.client, args[0])
			if res.Err != nil {
				return res.Err
			}
			return a.print(res.Data)
		},
	}
}

// searchOutput is the printed form of a search.
type searchOutput struct {
	Query   string          `json:"query" yaml:"query"`
	Total   int             `json:"total" yaml:"total"`
	Results []search.Result `json:"results" yaml:"results"`
}

func (a *app) searchCmd() *cobra.Command {
	var (
		filters search.Filters
		kind    string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search documents and subjects",
		Long:  "Search documents and subjects. Without a query every entry matching the filters is listed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			filters.Type = search.Type(kind)
			res := a.client.Search(cmd.Context(), q, filters)
			if res.Err != nil {
				return res.Err
			}
			return a.print(searchOutput{
				Query:   q,
				Total:   res.Data.EstimatedTotalHits,
				Results: res.Data.Results(),
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&filters.SubjectID, "subject", "", "restrict to one subject ID")
	flags.StringVar(&kind, "type", string(search.TypeAll), "all, documents or subjects")
	flags.StringVar(&filters.MimeType, "mime-type", "", "restrict documents to one MIME type")
	flags.BoolVar(&filters.Exact, "exact", false, "match the query exactly")
	flags.StringVar(&filters.Category, "category", "", "restrict to one category")
	return cmd
}

func (a *app) uploadCmd() *cobra.Command {
	var (
		path        string
		contentType string
		fields      map[string]string
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file as multipart/form-data",
		Example: "  studyhub upload notes.pdf --field subject_id=42 --field name=\"Week 1\"\n" +
			"  studyhub upload data.csv --path /api/v1/imports --content-type text/csv",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			info, err := f.Stat()
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])
			res := client.Upload[any](cmd.Context(), a.client, path, httpclient.FileField{
				FileName:    name,
				ContentType: contentType,
				Reader:      f,
			}, fields)
			if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(a.err, "Uploaded %s (%s)\n", name, search.FormatFileSize(info.Size()))
			return a.print(res.Data)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&path, "path", defaultUploadPath, "upload endpoint")
	flags.StringVar(&contentType, "content-type", "", "file MIME type (detected from content when empty)")
	flags.StringToStringVar(&fields, "field", nil, "extra form field as key=value, repeatable")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		// needs neither config nor a client
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			return a.print(version.Get())
		},
	}
}
