package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/chunkfmt/sql"
	"github.com/vippsas/chunkfmt/sql/sqltoken"
)

var writeInPlace bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "reformat every *.sql file under --directory",
	Long:  "fmt walks --directory for *.sql files, tokenizes and reformats each, and prints the result (or rewrites the file in place under -w).",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}

		return filepath.Walk(directory, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".sql") {
				return nil
			}
			return formatFile(path, opts)
		})
	},
}

func formatFile(path string, opts sql.Options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	opts.File = sqltoken.FileRef(path)

	out, err := sql.Format(string(src), opts)
	if err != nil {
		return err
	}

	if !writeInPlace {
		_, err := os.Stdout.WriteString(out)
		return err
	}
	if out == string(src) {
		logrus.WithField("file", path).Debug("chunkfmt: already formatted")
		return nil
	}
	return os.WriteFile(path, []byte(out), 0o644)
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "rewrite each file in place instead of printing to stdout")
	rootCmd.AddCommand(fmtCmd)
}
