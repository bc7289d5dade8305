// Photo Backup - A tool to back up photos into folders by capture date
//
// This tool walks a source directory for images, works out when each one
// was taken, and copies it into a date-partitioned tree under a destination
// directory (YYYY/MM/YYYY-MM-DD/). The source tree is never modified.
//
// Features:
//   - EXIF DateTimeOriginal extraction
//   - Filename and parent-folder date recognition (YYYYMMDD, YYYY-MM-DD)
//   - Duplicate detection via full-content BLAKE3 fingerprints
//   - Name collisions resolved with (1), (2), ... suffixes, never overwrites
//   - Per-file error isolation; one bad file never stops the run
//   - Optional CSV run report
//
// Usage:
//
//	photo-backup backup <source> <dest>             # Copy photos
//	photo-backup backup -n <source> <dest>          # Preview only
//	photo-backup backup -w 4 --report r.csv <s> <d> # 4 workers, write report
//	photo-backup date IMG_20230715_1200.jpg         # Show the date in a name
//	photo-backup exif photo.jpg                     # Dump EXIF tags
//	photo-backup resolve photo.jpg                  # Show the chosen date
//
// Resulting directory structure:
//
//	dest/
//	└── 2023/
//	    └── 07/
//	        └── 2023-07-15/
//	            ├── IMG_20230715_1200.jpg
//	            └── IMG_20230715_1200(1).jpg  <- same name, different bytes
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photo-backup/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configFile string
	cfg        *config.Config
}

// newRootCmd builds the command tree. Each call returns an independent tree
// so tests can execute commands without sharing flag state.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "photo-backup",
		Short:         "Back up photos into folders by capture date",
		Long:          "Copies images into <dest>/YYYY/MM/YYYY-MM-DD/, dating each from EXIF, its filename or its folder name, without overwriting or duplicating content.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return eris.Wrap(err, "load config")
			}
			a.cfg = c

			if err := config.InitLogger(a.cfg.Log); err != nil {
				return eris.Wrap(err, "init logger")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ./photo-backup.yaml if present)")
	pf.String("log-level", "", "Log level: debug | info | warn | error (default: info)")
	pf.String("log-format", "", "Log format: console | json (default: console)")

	root.AddCommand(
		newBackupCmd(a),
		newDateCmd(),
		newExifCmd(),
		newResolveCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
