package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photo-backup/internal/backup"
	"photo-backup/internal/config"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <source> <dest>",
		Short: "Copy images from source into dest/YYYY/MM/YYYY-MM-DD/",
		Long: `Walks <source>, dates every image (EXIF, then filename, then parent folder
name, then 2000-01-01) and copies it into <dest>/YYYY/MM/YYYY-MM-DD/.
Identical files already in place are skipped; different files with the
same name are stored as name(1).ext, name(2).ext, ...
Both directories must already exist.`,
		Example: `  photo-backup backup ~/DCIM /mnt/photos
  photo-backup backup --dry-run ~/DCIM /mnt/photos
  photo-backup backup --ext jpg,heic -w 4 --report run.csv ~/DCIM /mnt/photos`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			cfg.Backup.Source = args[0]
			cfg.Backup.Dest = args[1]
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Cancel on SIGINT/SIGTERM; the run stops between files.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			printBanner(out, cfg.Backup)

			summary, err := backup.Run(ctx, backup.Options{
				Source:     cfg.Backup.Source,
				Dest:       cfg.Backup.Dest,
				Extensions: cfg.Backup.Extensions,
				Workers:    cfg.Backup.Workers,
				DryRun:     cfg.Backup.DryRun,
			})
			if summary == nil {
				return err
			}

			fmt.Fprintln(out)
			if wErr := summary.WriteText(out); wErr != nil {
				return eris.Wrap(wErr, "write summary")
			}

			if cfg.Backup.Report != "" {
				if rErr := summary.WriteCSVFile(cfg.Backup.Report); rErr != nil {
					zap.L().Error("cannot write report", zap.String("path", cfg.Backup.Report), zap.Error(rErr))
				} else {
					fmt.Fprintf(out, "\nReport written to %s\n", cfg.Backup.Report)
				}
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringSlice("ext", nil, "Image extensions to back up, case-insensitive (default: jpg,jpeg,png,bmp,gif)")
	f.IntP("workers", "w", 1, "Files processed in parallel")
	f.BoolP("dry-run", "n", false, "Show what would happen without writing anything")
	f.String("report", "", "Write a CSV report of every processed file to this path")
	return cmd
}

// printBanner writes the run header.
func printBanner(w io.Writer, cfg config.BackupConfig) {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "Photo Backup")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Source:     %s\n", cfg.Source)
	fmt.Fprintf(w, "Dest:       %s\n", cfg.Dest)
	fmt.Fprintf(w, "Extensions: %s\n", strings.Join(cfg.Extensions, ", "))
	if cfg.DryRun {
		fmt.Fprintln(w, "\n[DRY RUN MODE - nothing will be written]")
	}
}
