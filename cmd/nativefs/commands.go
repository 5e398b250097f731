package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/codec"
	"github.com/brettbedarf/nativefs/config"
)

func (a *app) touchCmd() *cobra.Command {
	var unix int64
	cmd := &cobra.Command{
		Use:   "touch PATH",
		Short: "Set access and modification time, creating the file if missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t time.Time
			if unix > 0 {
				t = time.Unix(unix, 0)
			}
			return a.fs.Touch(args[0], t)
		},
	}
	cmd.Flags().Int64VarP(&unix, "time", "t", 0, "Unix seconds to set (default now)")
	return cmd
}

func (a *app) createCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "create PATH",
		Short: "Create an empty file, with parent directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseOptionalMode(mode)
			if err != nil {
				return err
			}
			return a.fs.CreateFile(args[0], m)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Octal file mode (default from config)")
	return cmd
}

func (a *app) mkdirCmd() *cobra.Command {
	var (
		mode    string
		parents bool
	)
	cmd := &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseOptionalMode(mode)
			if err != nil {
				return err
			}
			return a.fs.CreateDir(args[0], m, parents)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Octal directory mode (default from config)")
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "Create missing parent directories")
	return cmd
}

func (a *app) catCmd() *cobra.Command {
	var lock bool
	cmd := &cobra.Command{
		Use:   "cat PATH",
		Short: "Print file content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.fs.ReadFile(args[0], lock)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
	cmd.Flags().BoolVar(&lock, "lock", false, "Read under a shared lock")
	return cmd
}

func (a *app) linesCmd() *cobra.Command {
	var skipEmpty bool
	cmd := &cobra.Command{
		Use:   "lines PATH",
		Short: "Print file lines without line endings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.fs.ReadFileLines(args[0], skipEmpty)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipEmpty, "skip-empty", false, "Omit blank lines")
	return cmd
}

func (a *app) writeCmd() *cobra.Command {
	var appendMode, prependMode, atomic, lock bool
	cmd := &cobra.Command{
		Use:   "write PATH",
		Short: "Write stdin to a file, creating parent directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			switch {
			case appendMode:
				return a.fs.AppendFile(args[0], content, lock)
			case prependMode:
				return a.fs.PrependFile(args[0], content, lock)
			case atomic:
				return a.fs.WriteFileAtomic(args[0], content, 0)
			default:
				return a.fs.WriteFile(args[0], content, lock)
			}
		},
	}
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append instead of replacing")
	cmd.Flags().BoolVar(&prependMode, "prepend", false, "Prepend instead of replacing")
	cmd.Flags().BoolVar(&atomic, "atomic", false, "Replace through a temporary file and rename")
	cmd.Flags().BoolVar(&lock, "lock", false, "Write under an exclusive lock")
	cmd.MarkFlagsMutuallyExclusive("append", "prepend", "atomic")
	return cmd
}

func (a *app) sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size PATH",
		Short: "Print the size of a file or the recursive size of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.fs.Size(args[0]))
			return nil
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var opts nativefs.ListOptions
	cmd := &cobra.Command{
		Use:   "ls PATH",
		Short: "List the immediate children of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.fs.ListDir(args[0], opts)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.OnlyFiles, "files", false, "Exclude directories")
	cmd.Flags().StringSliceVar(&opts.Extensions, "ext", nil, "Keep only these extensions (with --files)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "Keep only names matching this glob")
	return cmd
}

func (a *app) hashCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "hash PATH",
		Short: "Print the hex digest of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := a.fs.HashFile(args[0], nativefs.HashType(strings.ToLower(typ)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "md5, sha1, sha256 or blake2b (default from config)")
	return cmd
}

func (a *app) mvCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "mv FROM TO",
		Short: "Copy then delete the source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fs.Move(args[0], args[1], replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite an existing destination file")
	return cmd
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename FROM TO",
		Short: "Rename within one filesystem",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fs.Rename(args[0], args[1])
		},
	}
}

func (a *app) cpCmd() *cobra.Command {
	var replace, strict bool
	cmd := &cobra.Command{
		Use:   "cp FROM TO",
		Short: "Copy a file or directory tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict {
				return a.fs.CopyVerified(args[0], args[1], replace)
			}
			return a.fs.Copy(args[0], args[1], replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite an existing destination file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Verify the copy by content hash")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.fs.Delete(args[0], recursive)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Delete non-empty directories")
	return cmd
}

func (a *app) chmodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chmod PATH [MODE]",
		Short: "Set permissions, or print them when MODE is omitted or 0",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode os.FileMode
			if len(args) == 2 {
				var err error
				if mode, err = config.ParseMode(args[1]); err != nil {
					return err
				}
			}
			perms, err := a.fs.Chmod(args[0], mode)
			if err != nil {
				return err
			}
			if perms != "" {
				fmt.Fprintln(cmd.OutOrStdout(), perms)
			}
			return nil
		},
	}
}

func (a *app) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat PATH",
		Short: "Print type, size, permissions and timestamps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			typ, err := a.fs.Type(path)
			if err != nil {
				return err
			}
			perms, err := a.fs.GetPermissions(path)
			if err != nil {
				return err
			}
			atime, err := a.fs.Atime(path)
			if err != nil {
				return err
			}
			mtime, err := a.fs.Mtime(path)
			if err != nil {
				return err
			}
			ctime, err := a.fs.Ctime(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type: %s\n", typ)
			fmt.Fprintf(out, "size: %d\n", a.fs.Size(path))
			fmt.Fprintf(out, "perms: %s\n", perms)
			fmt.Fprintf(out, "readable: %t\n", a.fs.IsReadable(path))
			fmt.Fprintf(out, "writable: %t\n", a.fs.IsWritable(path))
			fmt.Fprintf(out, "atime: %d\n", atime)
			fmt.Fprintf(out, "mtime: %d\n", mtime)
			fmt.Fprintf(out, "ctime: %d\n", ctime)
			return nil
		},
	}
}

func (a *app) mimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mime PATH",
		Short: "Print the content-sniffed MIME type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mime, err := a.fs.Mimetype(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mime)
			return nil
		},
	}
}

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find ROOT PATTERN",
		Short: "Recursively list files matching a glob such as '**/*.go'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := a.fs.Find(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH",
		Short: "Read JSON from stdin and export it in the format named by PATH's extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			var data any
			if err := codec.JSON.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("stdin is not valid JSON: %w", err)
			}
			return a.fs.Export(a.exportPath(args[0]), data)
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH",
		Short: "Decode an exported file and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data any
			if err := a.fs.Import(a.exportPath(args[0]), &data); err != nil {
				return err
			}
			out, err := codec.JSON.Marshal(data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// exportPath appends the configured export format when path has no extension
func (a *app) exportPath(path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + "." + string(a.cfg.ExportFormat)
}

// parseOptionalMode parses an octal mode flag; "" means the configured default
func parseOptionalMode(s string) (os.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	return config.ParseMode(s)
}
